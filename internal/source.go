package internal

import (
	"os"
	"strings"
)

// SourceCode stores the lines of a pattern-set file for diagnostic snippets.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads a file and returns its content as a SourceCode.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	return &SourceCode{Lines: lines}, nil
}
