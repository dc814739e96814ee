// Package filewatcher reloads the knowledge base when its source file
// changes on disk.
package filewatcher

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces the bursts of write events editors emit when
// saving a file.
const debounceDelay = 500 * time.Millisecond

// Watcher monitors one file and invokes reload after it changes.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	reload  func(ctx context.Context) error
}

// New creates a watcher for the given file path.
func New(path string, reload func(ctx context.Context) error) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher: w,
		path:    filepath.Clean(path),
		reload:  reload,
	}, nil
}

// Watch starts monitoring until ctx is cancelled. The parent directory
// is watched rather than the file itself so rename-replace saves are
// still observed.
func (w *Watcher) Watch(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	go func() {
		var debounce <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != w.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				debounce = time.After(debounceDelay)
			case <-debounce:
				debounce = nil
				if err := w.reload(ctx); err != nil {
					log.Printf("WARN: knowledge base reload after file change failed: %v", err)
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				log.Printf("WARN: file watcher error: %v", err)
			}
		}
	}()

	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}
