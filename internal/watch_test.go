package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStartWatchingTwice(t *testing.T) {
	t.Parallel()
	e := NewEngine(zap.NewNop())
	dir := t.TempDir()

	require.NoError(t, e.StartWatching(dir))
	defer e.StopWatching()

	assert.Error(t, e.StartWatching(dir), "a second watch on the same engine is rejected")
}

func TestWatchRestartAfterStop(t *testing.T) {
	t.Parallel()
	e := NewEngine(zap.NewNop())
	dir := t.TempDir()

	require.NoError(t, e.StartWatching(dir))
	require.NoError(t, e.StopWatching())

	// stopping tears the loop down cleanly, so a fresh watch can start
	require.NoError(t, e.StartWatching(dir))
	assert.NoError(t, e.StopWatching())
}

func TestStopWatchingWithoutStart(t *testing.T) {
	t.Parallel()
	e := NewEngine(zap.NewNop())
	assert.NoError(t, e.StopWatching())
}
