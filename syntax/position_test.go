package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosMapAnchored(t *testing.T) {
	t.Parallel()
	anchor := Position{Filename: "pat.yaml", Line: 3, Column: 7, Offset: 40}
	pattern := "ab\ncd\ne"
	m := newPosMap(pattern, anchor)

	tests := []struct {
		offset int
		line   int
		column int
	}{
		{0, 3, 7},  // anchor itself
		{2, 3, 9},  // the newline is still on the first line
		{3, 4, 1},  // first character after the newline
		{4, 4, 2},
		{6, 5, 1},
		{7, 5, 2}, // one past the end behaves like any interior offset
	}
	for _, tc := range tests {
		got := m.at(tc.offset)
		assert.Equal(t, tc.line, got.Line, "offset %d line", tc.offset)
		assert.Equal(t, tc.column, got.Column, "offset %d column", tc.offset)
		assert.Equal(t, anchor.Offset+tc.offset, got.Offset, "offset %d absolute", tc.offset)
		assert.Equal(t, "pat.yaml", got.Filename)
	}
}

func TestPosMapUnanchored(t *testing.T) {
	t.Parallel()
	m := newPosMap("a\nb", Position{})
	for _, offset := range []int{0, 1, 3} {
		assert.Equal(t, Position{}, m.at(offset))
		assert.False(t, m.at(offset).IsValid())
	}
}

func TestParseAtMultilinePattern(t *testing.T) {
	t.Parallel()
	anchor := Position{Filename: "pat.yaml", Line: 3, Column: 7, Offset: 40}
	node, err := ParseAt("ab\n|cd", anchor)
	require.NoError(t, err)

	alt, ok := node.(*Alternation)
	require.True(t, ok)
	require.Len(t, alt.Alts, 2)

	first := alt.Alts[0].Span()
	assert.Equal(t, 3, first.Start.Line)
	assert.Equal(t, 7, first.Start.Column)
	assert.Equal(t, 4, first.End.Line)
	assert.Equal(t, 1, first.End.Column)

	second := alt.Alts[1].Span()
	assert.Equal(t, 4, second.Start.Line)
	assert.Equal(t, 2, second.Start.Column)
	assert.Equal(t, 44, second.Start.Offset)
}

func TestSpanContains(t *testing.T) {
	t.Parallel()
	pos := func(offset int) Position {
		return Position{Line: 1, Column: offset + 1, Offset: offset}
	}
	outer := Span{Start: pos(0), End: pos(10)}
	inner := Span{Start: pos(2), End: pos(5)}

	assert.True(t, outer.Contains(inner))
	assert.True(t, outer.Contains(outer))
	assert.False(t, inner.Contains(outer))
	assert.False(t, Span{}.Contains(inner), "unknown spans contain nothing")
	assert.False(t, outer.Contains(Span{}))
}

func TestPositionString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "-", Position{}.String())
	assert.Equal(t, "5:3", Position{Line: 5, Column: 3}.String())
	assert.Equal(t, "pat.yaml:5:3", Position{Filename: "pat.yaml", Line: 5, Column: 3}.String())
}
