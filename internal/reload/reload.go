// Package reload watches the config file and re-applies it on change.
package reload

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// ApplyFunc reloads the file. A returned error keeps the previous settings.
type ApplyFunc func() error

// Watch calls apply after the file at path changes, until ctx is cancelled.
// The parent directory is watched so that editors doing atomic
// rename-over-write are seen too.
func Watch(ctx context.Context, path string, debounce time.Duration, logger *slog.Logger, apply ApplyFunc) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("reload: new watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("reload: resolve path: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("reload: watch dir: %w", err)
	}

	logger.Info("reload: watching config", slog.String("path", abs))

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("reload: stopped")
			return nil

		case <-fire:
			fire = nil
			if err := apply(); err != nil {
				logger.Error("reload: config rejected, keeping current",
					slog.String("path", abs),
					slog.String("error", err.Error()))
				continue
			}
			logger.Info("reload: config applied", slog.String("path", abs))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Stop()
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("reload: watcher error", slog.String("error", err.Error()))
		}
	}
}
