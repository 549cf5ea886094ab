package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch reports the object key of every file written, renamed or removed
// under the base directory until ctx is done. Directories created while
// watching are added to the watch set.
func (b *Backend) Watch(ctx context.Context, onChange func(objectKey string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			slog.Error("failed to close watcher", "dir", b.baseDir, "err", err)
		}
	}()

	if err := b.addTree(watcher, b.baseDir); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			if strings.HasPrefix(filepath.Base(event.Name), tempPrefix) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := b.addTree(watcher, event.Name); err != nil {
						slog.Warn("failed to watch directory", "dir", event.Name, "err", err)
					}
					continue
				}
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			rel, err := filepath.Rel(b.baseDir, event.Name)
			if err != nil {
				continue
			}
			slog.Debug("storage change", "event", event.Op.String(), "key", filepath.ToSlash(rel))
			onChange(filepath.ToSlash(rel))
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			slog.Warn("watcher error", "dir", b.baseDir, "err", err)
		}
	}
}

func (b *Backend) addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		return nil
	})
}
