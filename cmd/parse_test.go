package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patlang/repat/syntax"
)

func TestAstValue(t *testing.T) {
	node, err := syntax.Parse("(?<year>[0-9]{4})|x")
	require.NoError(t, err)

	v := astValue(node)
	assert.Equal(t, "alternation", v["kind"])

	alts, ok := v["alts"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, alts, 2)

	capture := alts[0]
	assert.Equal(t, "capture-as", capture["kind"])
	assert.Equal(t, "year", capture["name"])

	repeat, ok := capture["node"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "repeat", repeat["kind"])
	assert.Equal(t, 4, repeat["min"])
	assert.Equal(t, 4, repeat["max"])

	atom, ok := repeat["node"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "[0-9]", atom["source"])
}

func TestAstValueUnboundedRepeatOmitsMax(t *testing.T) {
	node, err := syntax.Parse("a+")
	require.NoError(t, err)

	v := astValue(node)
	assert.Equal(t, "repeat", v["kind"])
	assert.Equal(t, 1, v["min"])
	_, hasMax := v["max"]
	assert.False(t, hasMax)
}

func TestNodeLabel(t *testing.T) {
	node, err := syntax.Parse("(?&lib.tok)")
	require.NoError(t, err)
	assert.Equal(t, "lib.tok", nodeLabel(node))

	atom, err := syntax.Parse("ab")
	require.NoError(t, err)
	assert.Equal(t, `"ab"`, nodeLabel(atom))
}
