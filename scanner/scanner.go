// Package scanner discovers pattern-set files under a directory tree.
package scanner

import (
	"io/fs"
	"path/filepath"
	"sync"
)

// FileInfo is one discovered pattern file.
type FileInfo struct {
	Path string
	Size int64
}

type Scanner struct {
	rootDir    string
	extensions []string
}

// New creates a scanner rooted at rootDir. With no extensions every file
// matches.
func New(rootDir string, extensions ...string) *Scanner {
	return &Scanner{
		rootDir:    rootDir,
		extensions: extensions,
	}
}

// Scan walks the tree and collects every matching file.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var (
		files []FileInfo
		mutex sync.Mutex
		wg    sync.WaitGroup
	)

	err := filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !s.isTargetFile(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			fileInfo := FileInfo{
				Path: path,
				Size: info.Size(),
			}
			mutex.Lock()
			files = append(files, fileInfo)
			mutex.Unlock()
		}()
		return nil
	})

	wg.Wait()
	return files, err
}

func (s *Scanner) isTargetFile(path string) bool {
	if len(s.extensions) == 0 {
		return true
	}

	ext := filepath.Ext(path)
	for _, targetExt := range s.extensions {
		if ext == targetExt {
			return true
		}
	}
	return false
}
