package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/patlang/repat/internal/types"
)

// StartWatching re-checks pattern-set files under the given paths whenever
// they are written to. It returns once the watch loop is running.
func (e *Engine) StartWatching(paths ...string) error {
	if e.isWatching {
		return fmt.Errorf("already watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	e.watcher = watcher
	e.watchDirs = paths

	for _, dir := range e.watchDirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || path == dir {
				return e.watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error adding %s to watcher: %w", dir, err)
		}
	}

	e.isWatching = true
	go e.watchLoop()
	return nil
}

func (e *Engine) StopWatching() error {
	if !e.isWatching {
		return nil
	}
	e.isWatching = false
	return e.watcher.Close()
}

// watchLoop runs until the watcher is closed; closing it (StopWatching)
// closes both channels, so the loop never touches shared state.
func (e *Engine) watchLoop() {
	for {
		select {
		case event, ok := <-e.watcher.Events:
			if !ok {
				return
			}
			e.handleFileEvent(event)
		case err, ok := <-e.watcher.Errors:
			if !ok {
				return
			}
			e.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (e *Engine) handleFileEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Write != fsnotify.Write {
		return
	}
	if !isPatternFile(event.Name) {
		return
	}

	// editors tend to fire several writes per save; treat a burst as one
	time.Sleep(100 * time.Millisecond)

	issues, err := e.Run(event.Name)
	if err != nil {
		e.logger.Error("re-checking pattern file", zap.String("file", event.Name), zap.Error(err))
		return
	}
	e.reportIssues(event.Name, issues)
}

func (e *Engine) reportIssues(filename string, issues []types.Issue) {
	if len(issues) == 0 {
		e.logger.Info("no issues found", zap.String("file", filename))
		return
	}

	e.logger.Info("issues found", zap.String("file", filename), zap.Int("count", len(issues)))
	for _, issue := range issues {
		e.logger.Warn(issue.Message,
			zap.String("rule", issue.Rule),
			zap.String("pos", issue.Start.String()),
		)
	}
}
