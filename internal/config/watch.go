package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long the file must be quiet before it is re-read.
var watchDebounce = 500 * time.Millisecond

// Watch calls onChange with the freshly loaded config whenever the file at
// path is written, and onError when it cannot be read. It watches the parent
// directory so editors that replace the file atomically are seen too.
// Watch blocks until ctx is canceled.
func Watch(ctx context.Context, path string, onChange func(*Config), onError func(error)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watch dir %s: %w", dir, err)
	}

	ticker := time.NewTicker(watchDebounce / 2)
	defer ticker.Stop()

	var pending time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.Now()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(err)
			}

		case <-ticker.C:
			if pending.IsZero() || time.Since(pending) < watchDebounce {
				continue
			}
			pending = time.Time{}

			cfg, err := LoadFrom(path)
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			onChange(cfg)
		}
	}
}
