package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patlang/repat/rules"
)

func TestInitPatternFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "starter.yaml")
	require.NoError(t, initPatternFile(path))

	// the starter file must load and check cleanly
	set, err := rules.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "example", set.Name)
	assert.Empty(t, set.Check())
}
