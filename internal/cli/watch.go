package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long a file must stay quiet before a rerun.
const watchDebounce = 300 * time.Millisecond

// watchFile calls fn every time path is written, until ctx is done.
//
// The parent directory is watched rather than the file, so editors that
// save by renaming a temp file over path are still seen. Bursts of events
// within debounce collapse into one call. Errors from fn are logged and do
// not stop the watch.
func watchFile(ctx context.Context, path string, debounce time.Duration, logger *log.Logger, fn func(context.Context) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	logger.Info("watching for changes", "file", path)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("payload changed", "op", ev.Op.String())
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)

		case <-timer.C:
			if err := fn(ctx); err != nil {
				logger.Error("rerun failed", "err", err)
			}
		}
	}
}
