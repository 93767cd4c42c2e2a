package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-formgen-clinical/internal/logging"
)

const watchDebounce = 150 * time.Millisecond

// watch calls rebuild after changes to files, or to anything inside dirs,
// until ctx is cancelled. Parent directories are watched rather than the
// files themselves so editors that replace files on save are still seen.
func watch(ctx context.Context, files, dirs []string, rebuild func(context.Context) error) error {
	logger := logging.Logger(logging.SourceWatch)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	trackedFiles := make(map[string]struct{}, len(files))
	trackedDirs := make(map[string]struct{}, len(dirs))
	watched := make(map[string]struct{})
	add := func(dir string) error {
		if _, ok := watched[dir]; ok {
			return nil
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		watched[dir] = struct{}{}
		return nil
	}

	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		trackedFiles[abs] = struct{}{}
		if err := add(filepath.Dir(abs)); err != nil {
			return err
		}
	}
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		trackedDirs[abs] = struct{}{}
		if err := add(abs); err != nil {
			return err
		}
	}

	relevant := func(name string) bool {
		if _, ok := trackedFiles[name]; ok {
			return true
		}
		_, ok := trackedDirs[filepath.Dir(name)]
		return ok
	}

	logger.Info("watching for changes", "files", len(trackedFiles), "dirs", len(trackedDirs))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			if !relevant(event.Name) {
				continue
			}
			logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)
		case <-fire:
			fire = nil
			if err := rebuild(ctx); err != nil {
				logger.Error("rebuild failed", "err", err)
				continue
			}
			logger.Info("rebuilt")
		}
	}
}
