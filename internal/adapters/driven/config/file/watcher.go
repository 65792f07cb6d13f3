package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/cardsync/internal/core/ports/driven"
	"github.com/custodia-labs/cardsync/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.ConfigWatcher = (*Watcher)(nil)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a ConfigStore whenever its file changes on disk.
type Watcher struct {
	store    *ConfigStore
	debounce time.Duration
}

// NewWatcher creates a watcher for the store's file.
func NewWatcher(store *ConfigStore) *Watcher {
	return &Watcher{store: store, debounce: DefaultDebounce}
}

// Watch blocks until ctx is cancelled. After each change to the config
// file the store is reloaded and onChange is called. A file that fails to
// parse is logged and the previous values are kept.
func (w *Watcher) Watch(ctx context.Context, onChange func()) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	// Watch the directory: editors often replace the file instead of writing it.
	dir := filepath.Dir(w.store.Path())
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Debug("Watching %s for changes", w.store.Path())

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.isConfigEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher: %v", err)
		case <-fire:
			fire = nil
			if err := w.store.Load(); err != nil {
				logger.Warn("config reload failed, keeping previous values: %v", err)
				continue
			}
			logger.Info("Configuration reloaded from %s", w.store.Path())
			onChange()
		}
	}
}

// isConfigEvent reports whether an event changed the config file's content.
func (w *Watcher) isConfigEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.store.Path()) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
