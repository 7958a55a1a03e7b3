package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/agentflare-ai/hdrdoc/internal/extract"
)

// watch regenerates output every time input changes until ctx is done.
// Malformed input while watching is logged, not fatal; the next save retries.
func (app *cliApp) watch(ctx context.Context, input, output string) error {
	abs, err := filepath.Abs(input)
	if err != nil {
		return extract.FileError(input, "reading", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return extract.FileError(input, "reading", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch directories rather than the file itself so editors that replace
	// the file on save keep being tracked.
	dirs := []string{filepath.Dir(abs)}
	if info.IsDir() {
		dirs, err = watchDirs(abs)
		if err != nil {
			return err
		}
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	log := app.log.WithField("input", input)
	log.Info("watching for changes")
	app.regenerate(ctx, log, input, output)

	relevant := func(name string) bool {
		if info.IsDir() {
			return app.cfg.IsHeader(name)
		}
		return filepath.Clean(name) == abs
	}

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			log.Info("watch stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event.Name) || !(event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename)) {
				continue
			}
			log.WithFields(logrus.Fields{"file": event.Name, "op": event.Op.String()}).Debug("change detected")
			if timer == nil {
				timer = time.NewTimer(app.cfg.Debounce)
			} else {
				timer.Reset(app.cfg.Debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			app.regenerate(ctx, log, input, output)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("file watcher error")
		}
	}
}

func (app *cliApp) regenerate(ctx context.Context, log logrus.FieldLogger, input, output string) {
	start := time.Now()
	if err := app.generate(ctx, input, output); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.WithError(err).Error("regeneration failed")
		return
	}
	log.WithField("duration", time.Since(start).Round(time.Millisecond)).Info("documentation regenerated")
}

// watchDirs lists root and every non-hidden directory below it.
func watchDirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return extract.FileError(path, "reading", err)
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs, err
}
