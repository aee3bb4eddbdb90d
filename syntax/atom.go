package syntax

import (
	"fmt"
	"regexp"
)

// CompiledAtom is the opaque handle an AtomCompiler returns for a validated
// fragment. The parser stores it on the Atom without looking inside.
type CompiledAtom any

// AtomCompiler validates and compiles terminal regex fragments: literal
// runs, letter escapes such as \d or \w, and character classes, each handed
// over as the exact substring of the pattern. Returning an error rejects the
// fragment and fails the parse at the fragment's starting offset.
//
// Exact-match escapes (backslash followed by a non-letter) and the ^ and $
// anchors never reach the compiler.
type AtomCompiler interface {
	CompileAtom(fragment string) (CompiledAtom, error)
}

// Regexp returns the default AtomCompiler, backed by the standard regexp
// package. The handle it produces is a *regexp.Regexp.
func Regexp() AtomCompiler { return regexpCompiler{} }

type regexpCompiler struct{}

func (regexpCompiler) CompileAtom(fragment string) (CompiledAtom, error) {
	re, err := regexp.Compile(fragment)
	if err != nil {
		return nil, err
	}
	return re, nil
}

// IdentFunc parses a qualified identifier in s beginning at start, returning
// the identifier and the offset just past it. It is the micro-parser behind
// (?&name) references.
type IdentFunc func(s string, start int) (name string, end int, err error)

// QualifiedIdent is the default IdentFunc. It accepts dot-separated
// segments, each starting with a letter or underscore and continuing with
// letters, digits, or underscores.
func QualifiedIdent(s string, start int) (string, int, error) {
	i := start
	for {
		if i >= len(s) || !(isLetter(s[i]) || s[i] == '_') {
			return "", 0, fmt.Errorf("expected identifier segment")
		}
		for i < len(s) && isIdentChar(s[i]) {
			i++
		}
		if i < len(s) && s[i] == '.' {
			i++
			continue
		}
		return s[start:i], i, nil
	}
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || '0' <= c && c <= '9' || c == '_'
}
