package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 250 * time.Millisecond

// Watcher signals when the config file changes on disk. Editors that replace
// the file atomically are handled by watching the parent directory.
type Watcher struct {
	path     string
	logger   *slog.Logger
	onChange func()
}

func NewWatcher(path string, logger *slog.Logger, onChange func()) *Watcher {
	return &Watcher{path: filepath.Clean(path), logger: logger, onChange: onChange}
}

// Serve blocks until ctx is done, calling onChange once per burst of writes.
func (w *Watcher) Serve(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return fmt.Errorf("config watcher closed")
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					<-timerCh
				}
				timer.Reset(watchDebounce)
			}
		case <-timerCh:
			timer = nil
			timerCh = nil
			w.logger.Info("config file changed", "path", w.path)
			w.onChange()
		case err, ok := <-fw.Errors:
			if !ok {
				return fmt.Errorf("config watcher closed")
			}
			w.logger.Warn("config watcher error", "error", err)
		}
	}
}
