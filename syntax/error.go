package syntax

import "fmt"

// ParseError is the first syntax error a parse ran into. Offset is a byte
// index into the pattern; Pos is the translated source position and is only
// meaningful when the parse was anchored.
type ParseError struct {
	Offset int
	Pos    Position
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("pattern offset %d: %s", e.Offset, e.Msg)
}
