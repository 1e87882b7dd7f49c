package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watchFile calls onChange whenever path is written, created, or renamed,
// until ctx is done. It watches path's directory rather than the file
// itself since editors commonly replace a file instead of writing it
// in place, which the file's own inode would miss.
func watchFile(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: starting file watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("config: watching %s: %w", dir, err)
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("config: watcher for %s closed unexpectedly", path)
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				onChange()
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("config: watcher for %s closed unexpectedly", path)
			}
			return fmt.Errorf("config: watching %s: %w", path, watchErr)
		}
	}
}
