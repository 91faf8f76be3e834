package internal

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher wraps an fsnotify watcher with media file filtering. A file is
// handed on once no event touched it for the settle delay, so files that
// are still being copied in are not read half-written.
type Watcher struct {
	watcher   *fsnotify.Watcher
	classes   Classifier
	settle    time.Duration
	recursive bool
	logger    *slog.Logger
}

// NewWatcher watches root (and its sub-directories when recursive).
func NewWatcher(root string, recursive bool, classes Classifier, settle time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:   fsWatcher,
		classes:   classes,
		settle:    settle,
		recursive: recursive,
		logger:    logger,
	}

	if err := w.add(root); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	return w, nil
}

// add adds a directory, and with recursion all its subdirectories.
func (w *Watcher) add(root string) error {
	if !w.recursive {
		return w.watcher.Add(root)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

// Run delivers settled media files to ready until ctx is done. ready is
// called from Run's goroutine, one file at a time.
func (w *Watcher) Run(ctx context.Context, ready func(path string)) error {
	tick := w.settle / 4
	if tick < 50*time.Millisecond {
		tick = 50 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	pending := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event, pending)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err.Error())

		case now := <-ticker.C:
			for _, path := range settled(pending, now, w.settle) {
				delete(pending, path)
				ready(path)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event, pending map[string]time.Time) {
	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		delete(pending, event.Name)
		return
	default:
		return
	}

	info, err := os.Lstat(event.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		if w.recursive && event.Has(fsnotify.Create) {
			if err := w.add(event.Name); err != nil {
				w.logger.Warn("cannot watch directory", "dir", event.Name, "error", err.Error())
			}
		}
		return
	}
	if !info.Mode().IsRegular() {
		return
	}
	if _, ok := w.classes.Kind(event.Name); !ok {
		return
	}
	pending[event.Name] = time.Now()
}

// settled returns the pending paths quiet for at least delay, in natural order.
func settled(pending map[string]time.Time, now time.Time, delay time.Duration) []string {
	var paths []string
	for path, last := range pending {
		if now.Sub(last) >= delay {
			paths = append(paths, path)
		}
	}
	sortNatural(paths)
	return paths
}

// Close stops the watcher and cleans up resources
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Watch renames files as the watcher reports them settled. All files of
// the session share reg (a fresh one when nil). It returns when ctx is done.
func (r *Runner) Watch(ctx context.Context, w *Watcher, reg *NameRegistry) (RunStats, error) {
	stats := NewRunStats()
	if r.Errors == nil {
		r.Errors = NewErrorStats()
	}
	if reg == nil {
		reg = NewNameRegistry(nil)
	}
	err := w.Run(ctx, func(path string) {
		r.Apply(r.Planner.Step(path, reg), &stats)
	})
	return stats, err
}
