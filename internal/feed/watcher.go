package feed

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/feedship/feedship/pkg/log"
)

// Watcher reports feed files dropped into a directory. Only files with a
// .json or .ndjson suffix trigger; events are debounced so a file still
// being written is handled once it has gone quiet.
type Watcher struct {
	dir      string
	logger   log.Logger
	debounce time.Duration
}

// NewWatcher creates a watcher over dir.
func NewWatcher(dir string, logger log.Logger) *Watcher {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Watcher{
		dir:      dir,
		logger:   logger,
		debounce: 200 * time.Millisecond,
	}
}

// Run watches the drop directory and calls handle with each new feed
// file path until ctx is canceled. Handling runs on the watch goroutine,
// so files are processed strictly one at a time; a handle error is
// logged and watching continues.
func (w *Watcher) Run(ctx context.Context, handle func(path string) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !isFeedFile(event.Name) {
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", log.Err(err))

		case <-ticker.C:
			for path, seen := range pending {
				if time.Since(seen) < w.debounce {
					continue
				}
				delete(pending, path)
				if err := handle(path); err != nil {
					w.logger.Error("feed file failed",
						log.String("path", path),
						log.Err(err),
					)
				}
			}
		}
	}
}

// isFeedFile reports whether path looks like a feed file by extension.
func isFeedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".ndjson":
		return true
	}
	return false
}
