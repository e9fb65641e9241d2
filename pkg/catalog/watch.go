package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the catalog whenever a definition file changes, until ctx is done.
// onReload, when non-nil, receives the result of every reload.
func (c *Catalog) Watch(ctx context.Context, onReload func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(c.dir); err != nil {
		return fmt.Errorf("watch %s: %w", c.dir, err)
	}

	// Many editors emit several events for one save.
	debounceTimer := time.NewTimer(0)
	<-debounceTimer.C
	pending := false

	for {
		select {
		case <-ctx.Done():
			debounceTimer.Stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isDefinitionFile(filepath.Base(event.Name)) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			c.logger.Debug("catalog change", "file", event.Name, "op", event.Op.String())
			pending = true
			debounceTimer.Reset(c.debounce)

		case <-debounceTimer.C:
			if !pending {
				continue
			}
			pending = false
			err := c.Load()
			if err != nil {
				c.logger.Warn("catalog reloaded with problems", "err", err)
			}
			if onReload != nil {
				onReload(err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("catalog watcher error", "err", err)
		}
	}
}
