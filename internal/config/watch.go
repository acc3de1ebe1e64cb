package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-admincustomizer/pkg/interfaces"
)

const watchDebounce = 250 * time.Millisecond

// Watch reloads path whenever it changes and hands the new configuration to
// onChange. Invalid edits are logged and skipped. The parent directory is
// watched so editors that replace the file are picked up. Watch blocks until
// ctx is done.
func Watch(ctx context.Context, path string, logger interfaces.Logger, onChange func(Config)) error {
	if path == "" {
		return fmt.Errorf("config: watch requires a file path")
	}
	if onChange == nil {
		return fmt.Errorf("config: watch requires a change handler")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config: resolve %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("config: watch %s: %w", filepath.Dir(abs), err)
	}

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config.watch.error", "path", abs, "error", err)
		case <-timer.C:
			cfg, err := Load(abs)
			if err != nil {
				logger.Warn("config.watch.reload_failed", "path", abs, "error", err)
				continue
			}
			logger.Info("config.watch.reloaded", "path", abs)
			onChange(cfg)
		}
	}
}
