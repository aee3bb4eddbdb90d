package check

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	tt "github.com/patlang/repat/internal/types"
)

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) Run(path string) ([]tt.Issue, error) {
	args := m.Called(path)
	return args.Get(0).([]tt.Issue), args.Error(1)
}

func (m *mockEngine) RunSource(source []byte) ([]tt.Issue, error) {
	args := m.Called(source)
	return args.Get(0).([]tt.Issue), args.Error(1)
}

const goodSet = `name: http
patterns:
  token: "[A-Za-z0-9_-]+"
`

const badSet = `name: bad
patterns:
  broken: "a**"
`

func TestProcessFilesOnDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.yaml"), []byte(goodSet), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yml"), []byte(badSet), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("not yaml"), 0o644))

	engine := New(zap.NewNop())
	issues, err := ProcessFiles(context.Background(), zap.NewNop(), engine, []string{dir}, ProcessFile)
	require.NoError(t, err)

	require.Len(t, issues, 1)
	assert.Equal(t, "invalid-pattern", issues[0].Rule)
	assert.Equal(t, filepath.Join(dir, "bad.yml"), issues[0].Filename)
}

func TestProcessPathSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(badSet), 0o644))

	engine := New(zap.NewNop())
	issues, err := ProcessPath(context.Background(), zap.NewNop(), engine, path, ProcessFile)
	require.NoError(t, err)
	assert.Len(t, issues, 1)
}

func TestProcessPathSkipsOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("anything"), 0o644))

	engine := New(zap.NewNop())
	issues, err := ProcessPath(context.Background(), zap.NewNop(), engine, path, ProcessFile)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestProcessFilesPropagatesEngineError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "set.yaml")
	require.NoError(t, os.WriteFile(path, []byte(goodSet), 0o644))

	engine := new(mockEngine)
	engine.On("Run", path).Return([]tt.Issue(nil), errors.New("boom"))

	_, err := ProcessFiles(context.Background(), zap.NewNop(), engine, []string{path}, ProcessFile)
	require.Error(t, err)
	engine.AssertExpectations(t)
}

func TestProcessPathKeepsIssuesWhenAnotherFileFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fail.yaml"), []byte("name: x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "slow.yaml"), []byte(badSet), 0o644))

	engine := New(zap.NewNop())

	// the failing file finishes first, so its result sits in the channel
	// ahead of the issue-bearing one
	processor := func(e Engine, path string) ([]tt.Issue, error) {
		if filepath.Base(path) == "fail.yaml" {
			return nil, errors.New("boom")
		}
		time.Sleep(50 * time.Millisecond)
		return e.Run(path)
	}

	issues, err := ProcessPath(context.Background(), zap.NewNop(), engine, dir, processor)
	require.NoError(t, err)
	require.Len(t, issues, 1, "issues from healthy files survive another file's failure")
	assert.Equal(t, "invalid-pattern", issues[0].Rule)
	assert.Equal(t, filepath.Join(dir, "slow.yaml"), issues[0].Filename)
}

func TestProcessSources(t *testing.T) {
	engine := New(zap.NewNop())
	issues, err := ProcessSources(context.Background(), zap.NewNop(), engine,
		[][]byte{[]byte(goodSet), []byte(badSet)}, ProcessSource)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "invalid-pattern", issues[0].Rule)
}

func TestProcessFilesMissingPath(t *testing.T) {
	engine := New(zap.NewNop())
	_, err := ProcessFiles(context.Background(), zap.NewNop(), engine,
		[]string{"does-not-exist"}, ProcessFile)
	assert.Error(t, err)
}
