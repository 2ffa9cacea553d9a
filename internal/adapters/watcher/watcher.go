package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/ripple/internal/core/ports"
)

var _ ports.Watcher = (*Watcher)(nil)

// shouldSkipDirectories are directories that should not be watched.
var shouldSkipDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
}

const (
	eventChannelBuffer = 100
	debounceWindow     = 200 * time.Millisecond
)

// Watcher watches a directory tree for snapshot file changes using fsnotify.
// Raw events are debounced so a burst of writes to the same snapshot yields
// a single WatchEvent.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	events    chan ports.WatchEvent
	done      chan struct{}
	doneOnce  sync.Once
}

// NewWatcher creates a new snapshot file watcher.
func NewWatcher() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsWatcher: fsWatcher,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
		done:      make(chan struct{}),
	}
	w.debouncer = NewDebouncer(debounceWindow, w.emit)
	return w, nil
}

// Start begins watching the given root directory recursively.
func (w *Watcher) Start(ctx context.Context, root string) error {
	for dir := range w.watchRecursively(root) {
		if err := w.fsWatcher.Add(dir); err != nil {
			return err
		}
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	err := w.fsWatcher.Close()
	w.shutdown()
	return err
}

// Events returns an iterator of coalesced snapshot change events. The
// iterator terminates when the watcher stops or its context is cancelled.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for {
			select {
			case event := <-w.events:
				if !yield(event) {
					return
				}
			case <-w.done:
				return
			}
		}
	}
}

func (w *Watcher) shutdown() {
	w.doneOnce.Do(func() { close(w.done) })
}

// emit is the debouncer callback. It never closes or blocks indefinitely on
// the event channel so a late-firing debounce timer cannot panic after Stop.
func (w *Watcher) emit(paths []string) {
	for _, path := range paths {
		select {
		case w.events <- ports.WatchEvent{Path: path}:
		case <-w.done:
			return
		}
	}
}

// watchRecursively walks the directory tree and yields all directories.
func (w *Watcher) watchRecursively(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Continue walking even if a directory cannot be read.
				return nil //nolint:nilerr
			}
			if d.IsDir() {
				if shouldSkipDirectories[d.Name()] {
					return fs.SkipDir
				}
				if !yield(path) {
					return filepath.SkipAll
				}
			}
			return nil
		})
	}
}

// isSnapshotFile reports whether the path looks like a unit snapshot.
func isSnapshotFile(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 && isSnapshotFile(event.Name) {
				w.debouncer.Add(event.Name)
			}

			// If a new directory was created, watch it and its children too.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !shouldSkipDirectories[info.Name()] {
					for dir := range w.watchRecursively(event.Name) {
						_ = w.fsWatcher.Add(dir)
					}
				}
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watcher: file system error: %v\n", err)
		}
	}
}
