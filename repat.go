// Package repat is the library entry point: parsing single patterns and
// checking whole pattern-set files.
package repat

import (
	"github.com/patlang/repat/internal"
	"github.com/patlang/repat/internal/types"
	"github.com/patlang/repat/syntax"
)

// Parse parses one pattern without position tracking.
func Parse(pattern string) (syntax.Node, error) {
	return syntax.Parse(pattern)
}

// ParseAt parses one pattern with positions anchored at the given source
// location.
func ParseAt(pattern string, anchor syntax.Position) (syntax.Node, error) {
	return syntax.ParseAt(pattern, anchor)
}

// CheckFile loads the pattern-set file at path and returns its issues.
func CheckFile(path string) ([]types.Issue, error) {
	return internal.NewEngine(nil).Run(path)
}

// CheckSource checks an in-memory pattern-set document.
func CheckSource(src []byte) ([]types.Issue, error) {
	return internal.NewEngine(nil).RunSource(src)
}
