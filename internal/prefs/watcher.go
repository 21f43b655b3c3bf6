package prefs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grendel/noprints/internal/logging"
)

const reloadDebounce = 500 * time.Millisecond

// Watcher reloads a Store when its file changes on disk
type Watcher struct {
	watcher *fsnotify.Watcher
	store   *Store
	name    string

	// OnReload, if set, is called after every successful reload
	OnReload func()
}

// NewWatcher watches the directory holding the store's file, so that editors
// replacing the file atomically are still seen.
func NewWatcher(store *Store) (*Watcher, error) {
	dir := filepath.Dir(store.Path())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create preferences directory: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", dir, err)
	}
	return &Watcher{watcher: w, store: store, name: filepath.Base(store.Path())}, nil
}

// Run reloads the store 500ms after the last write to its file. Blocks until
// ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var debounce *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != w.name {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(reloadDebounce, w.reload)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warnf("preferences watcher error: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	if err := w.store.Reload(); err != nil {
		logging.Warnf("preferences reload failed: %v", err)
		return
	}
	logging.Debugf("preferences reloaded from %s", w.store.Path())
	if w.OnReload != nil {
		w.OnReload()
	}
}
