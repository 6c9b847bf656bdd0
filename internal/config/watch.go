package config

import (
	"context"
	"fmt"
	"path/filepath"

	"mini-render/internal/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads the file at path whenever it is written and passes the new
// configuration to onChange. Invalid files are logged and skipped. Watch
// returns once ctx is done; onChange runs on the watcher goroutine.
func Watch(ctx context.Context, path string, onChange func(Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watcher: %w", err)
	}
	// Editors often replace the file, so watch the directory.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return fmt.Errorf("config watcher: %w", err)
	}
	name := filepath.Clean(path)

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != name || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := Load(path)
				if err != nil {
					logger.Log.Warn("config reload failed", zap.String("path", path), zap.Error(err))
					continue
				}
				logger.Log.Info("config reloaded", zap.String("path", path))
				onChange(cfg)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Log.Warn("config watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
