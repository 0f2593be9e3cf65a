package message

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 200 * time.Millisecond

// WatchPrompts reloads p from path whenever the file changes, until ctx is
// cancelled. The parent directory is watched rather than the file itself so
// that editors which save by rename keep triggering reloads. A file that
// fails to parse is logged and the previous prompts stay active.
func WatchPrompts(ctx context.Context, p *Prompts, path string, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	logger.Info("prompts watcher: started", slog.String("path", abs))

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(reloadDebounce)
			timerCh = timer.C
		} else {
			timer.Reset(reloadDebounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("prompts watcher: stopped")
			return nil

		case <-timerCh:
			if err := p.Reload(abs); err != nil {
				logger.Warn("prompts watcher: reload failed", slog.String("path", abs), slog.String("error", err.Error()))
				continue
			}
			logger.Info("prompts watcher: reloaded", slog.String("path", abs))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				schedule()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("prompts watcher: error", slog.String("error", err.Error()))
		}
	}
}
