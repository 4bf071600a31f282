package schema

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// FileStore retrieves schema documents from the local filesystem and
// caches their contents. Cached entries are invalidated through fsnotify
// when the underlying file changes, and an optional callback lets the
// language service drop its own parsed copy at the same time.
type FileStore struct {
	mu      sync.Mutex
	cache   map[string]string
	watched map[string]bool

	watcher      *fsnotify.Watcher
	onInvalidate func(path string)
	done         chan struct{}
}

// NewFileStore creates a file store. onInvalidate, if non-nil, is called
// with the resolved path whenever a cached schema file changes on disk.
func NewFileStore(onInvalidate func(path string)) (*FileStore, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("schema file store: %w", err)
	}

	s := &FileStore{
		cache:        make(map[string]string),
		watched:      make(map[string]bool),
		watcher:      watcher,
		onInvalidate: onInvalidate,
		done:         make(chan struct{}),
	}
	go s.watchLoop()
	return s, nil
}

// Resolve returns the content of the schema file at url, which may be a
// file:// URL or a plain path.
func (s *FileStore) Resolve(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := strings.TrimPrefix(url, "file://")

	s.mu.Lock()
	if content, ok := s.cache[path]; ok {
		s.mu.Unlock()
		return content, nil
	}
	s.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("schema file %s: %w", path, err)
	}
	content := string(data)

	s.mu.Lock()
	s.cache[path] = content
	dir := filepath.Dir(path)
	needWatch := !s.watched[dir]
	if needWatch {
		s.watched[dir] = true
	}
	s.mu.Unlock()

	if needWatch {
		if err := s.watcher.Add(dir); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("schema: watch failed")
		}
	}
	return content, nil
}

// watchLoop drops cache entries for files that change on disk.
func (s *FileStore) watchLoop() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename|fsnotify.Create) == 0 {
				continue
			}

			s.mu.Lock()
			_, cached := s.cache[event.Name]
			if cached {
				delete(s.cache, event.Name)
			}
			s.mu.Unlock()

			if cached {
				log.Debug().Str("path", event.Name).Msg("schema: invalidated after file change")
				if s.onInvalidate != nil {
					s.onInvalidate(event.Name)
				}
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("schema: watcher error")
		}
	}
}

// Close stops the watcher. The store must not be used afterwards.
func (s *FileStore) Close() error {
	close(s.done)
	return s.watcher.Close()
}
