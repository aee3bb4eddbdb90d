package syntax

import (
	"fmt"
	"sort"
)

// Position is a point in the original source of a pattern. The zero value is
// the "position unknown" sentinel used when the parser was given no anchor.
type Position struct {
	Filename string
	Offset   int // absolute byte offset, relative to the anchor
	Line     int // 1-based line number
	Column   int // 1-based byte column
}

// IsValid reports whether the position carries real location information.
func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	s := p.Filename
	if s != "" {
		s += ":"
	}
	return s + fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is the half-open source range [Start, End) a node was parsed from.
type Span struct {
	Start Position
	End   Position
}

func (s Span) IsValid() bool { return s.Start.IsValid() }

func (s Span) String() string {
	if !s.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%s-%d:%d", s.Start, s.End.Line, s.End.Column)
}

// Contains reports whether other lies entirely within s. Spans without
// position information contain nothing.
func (s Span) Contains(other Span) bool {
	return s.IsValid() && other.IsValid() &&
		s.Start.Offset <= other.Start.Offset && other.End.Offset <= s.End.Offset
}

// posMap translates byte offsets within one pattern into source positions.
// The newline table is computed once per parse and never mutated afterwards.
type posMap struct {
	anchor   Position
	newlines []int
}

func newPosMap(pattern string, anchor Position) posMap {
	m := posMap{anchor: anchor}
	if !anchor.IsValid() {
		return m
	}
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '\n' {
			m.newlines = append(m.newlines, i)
		}
	}
	return m
}

// at maps a byte offset (0 <= offset <= len(pattern)) to a source position.
// Without an anchor every offset maps to the zero Position.
func (m posMap) at(offset int) Position {
	if !m.anchor.IsValid() {
		return Position{}
	}
	k := sort.SearchInts(m.newlines, offset)
	p := Position{
		Filename: m.anchor.Filename,
		Offset:   m.anchor.Offset + offset,
		Line:     m.anchor.Line + k,
	}
	if k == 0 {
		// still on the anchor's line
		p.Column = m.anchor.Column + offset
	} else {
		p.Column = offset - m.newlines[k-1]
	}
	return p
}
