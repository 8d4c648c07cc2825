package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sorayia-labs/stakectl/internal/logging"
)

// debounceWindow coalesces the burst of filesystem events most editors
// emit for a single save.
const debounceWindow = 250 * time.Millisecond

// Watch re-reads the config file whenever it changes on disk and calls
// onChange with the freshly validated configuration. Invalid or
// unreadable revisions are logged and skipped; the previous
// configuration stays in effect. Watch blocks until ctx is canceled.
//
// The parent directory is watched rather than the file itself so that
// atomic rename-over saves keep being picked up.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	path = expandPath(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	log := logging.With(logging.Component("config"))

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				timer.Reset(debounceWindow)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			cfg, err := Load(path)
			if err != nil {
				log.Warn("ignoring config change", logging.Err(err))
				continue
			}
			log.Info("configuration reloaded", "path", path)
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("config watcher error", logging.Err(err))
		}
	}
}
