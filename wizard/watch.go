// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchStepsFile reloads the steps file at path whenever it changes and hands
// each valid catalog to apply. Edits that fail to load are logged and skipped,
// so the last good catalog stays in use. The watch stops when ctx is done.
func WatchStepsFile(ctx context.Context, path string, apply func([]Step)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create steps watcher: %w", err)
	}

	// Watch the directory: editors often save by renaming a temp file over
	// the original, which drops a watch on the file itself.
	target := filepath.Clean(path)
	if err := fsw.Add(filepath.Dir(target)); err != nil {
		fsw.Close()
		return fmt.Errorf("watch steps file: %w", err)
	}

	go func() {
		defer fsw.Close()
		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}

				steps, err := LoadStepsFile(target)
				if err != nil {
					slog.Warn("ignoring steps file change", "file", target, "error", err)
					continue
				}
				slog.Info("wizard steps reloaded", "file", target, "steps", len(steps))
				apply(steps)

			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				slog.Error("steps watcher error", "file", target, "error", err)
			}
		}
	}()

	return nil
}
