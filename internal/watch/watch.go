// Package watch re-runs a callback when a single file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 400 * time.Millisecond

// FileWatcher fires a callback when one file is written, created, or
// replaced. It watches the parent directory rather than the file itself so
// editors that save through a rename-and-replace keep producing events.
type FileWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func()
}

// New builds a watcher for path. A non-positive debounce uses the default
// window. Event bursts within the window coalesce into one callback, and
// callbacks run sequentially on the Run goroutine.
func New(path string, debounce time.Duration, onChange func()) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &FileWatcher{
		path:     abs,
		watcher:  w,
		debounce: debounce,
		onChange: onChange,
	}, nil
}

// Run blocks until the context is cancelled or the watcher fails.
func (w *FileWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path || !touches(event.Op) {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			if w.onChange != nil {
				w.onChange()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", w.path, err)
		}
	}
}

// touches reports whether the operation changes file content. Removal alone
// does not trigger: an editor mid-save deletes before it recreates, and the
// recreate arrives as its own event.
func touches(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
