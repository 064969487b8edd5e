package dictionary

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/FAU-CDI/kdict/internal/stats"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the default time to wait for further changes before reloading.
const DefaultDebounce = 500 * time.Millisecond

// Watch reloads holder whenever the file at path changes.
// Changes within debounce of each other cause a single reload.
// When the file does not exist at the time of reloading, the current dictionary is kept.
//
// Watch blocks until ctx is done.
// Errors during reloading are logged to st, and do not stop watching.
func Watch(ctx context.Context, path string, debounce time.Duration, holder *Holder, st *stats.Stats) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// watch the directory, as editors frequently replace files instead of writing them
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %q: %w", path, err)
	}
	st.Log("watching source", "path", path, "debounce", debounce)

	timer := time.NewTimer(debounce)
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
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			st.LogDebug("source changed", "path", path, "op", event.Op.String())
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			st.LogError("watch source", err, "path", path)
		case <-timer.C:
			// the file was moved away or deleted
			if _, err := os.Stat(path); err != nil {
				st.LogWarn("source unavailable, keeping current dictionary", "path", path, "err", err)
				continue
			}
			if err := holder.Reload(ctx); err != nil {
				st.LogError("reload", err, "path", path)
			}
		}
	}
}
