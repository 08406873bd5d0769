package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const watchDebounce = 250 * time.Millisecond

// Watch re-resolves the configuration whenever the file at path is written,
// created or renamed over, and hands the result to onChange. The parent
// directory is watched so editors that replace the file are picked up.
// Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, log *zap.SugaredLogger, onChange func(Config)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	if err := w.Add(dir); err != nil {
		return err
	}
	log.Infow("Watching configuration file", "path", abs)

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	reload := func() {
		cfg, err := Resolve(abs, true)
		if err != nil {
			log.Warnw("Ignoring configuration change that failed to load", "path", abs, "error", err)
			return
		}
		log.Infow("Configuration file changed, reloading", "path", abs)
		onChange(cfg)
	}
	debounce := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(watchDebounce, reload)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warnw("Configuration watcher error", "error", err)
		}
	}
}
