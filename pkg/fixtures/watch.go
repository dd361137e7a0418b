package fixtures

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watch reloads the fixture file at path whenever it is written or
// created and passes each valid set to onReload. Files that fail to load
// are logged and skipped. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, logger logrus.FieldLogger, onReload func(*Set)) error {
	if path == "" {
		return fmt.Errorf("fixtures path is required")
	}
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve fixtures path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// editors replace files on save, so watch the directory
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	log := logger.WithField("path", target)
	log.Info("watching fixtures")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || filepath.Clean(event.Name) != target {
				continue
			}
			set, err := Load(target)
			if err != nil {
				log.WithError(err).Warn("ignoring invalid fixtures")
				continue
			}
			log.Info("fixtures reloaded")
			onReload(set)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Error("watcher error")
		}
	}
}
