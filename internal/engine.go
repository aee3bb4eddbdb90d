package internal

import (
	"bytes"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/patlang/repat/internal/types"
	"github.com/patlang/repat/rules"
)

// Engine loads pattern-set files and reports their issues. It also carries
// the optional watch state for re-checking files as they change.
type Engine struct {
	logger *zap.Logger

	watcher    *fsnotify.Watcher
	watchDirs  []string
	isWatching bool
}

// NewEngine creates a check engine. A nil logger disables logging.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Run checks the pattern-set file at path.
func (e *Engine) Run(path string) ([]types.Issue, error) {
	set, err := rules.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return set.Check(), nil
}

// RunSource checks an in-memory pattern-set document.
func (e *Engine) RunSource(src []byte) ([]types.Issue, error) {
	set, err := rules.Load(bytes.NewReader(src), "<source>")
	if err != nil {
		return nil, err
	}
	return set.Check(), nil
}

var patternFileExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
}

func isPatternFile(path string) bool {
	return patternFileExtensions[filepath.Ext(path)]
}
