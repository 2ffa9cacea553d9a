package ports

import (
	"context"
	"iter"
)

// WatchEvent describes a change to a snapshot file on disk.
type WatchEvent struct {
	// Path is the file that changed.
	Path string
}

// Watcher watches a directory tree of snapshot files for changes.
type Watcher interface {
	// Start begins watching the given root directory recursively.
	Start(ctx context.Context, root string) error
	// Stop stops the watcher and releases all resources.
	Stop() error
	// Events returns an iterator of coalesced file change events.
	Events() iter.Seq[WatchEvent]
}
