package domain

import "go.trai.ch/zerr"

var (
	// ErrSnapshotLoadFailed is returned when a unit's dependency snapshot cannot be read or parsed.
	ErrSnapshotLoadFailed = zerr.New("failed to load dependency snapshot")

	// ErrSnapshotUnitMismatch is returned when a snapshot is merged under a different unit than it describes.
	ErrSnapshotUnitMismatch = zerr.New("snapshot does not belong to the merged unit")

	// ErrFingerprintOnReference is returned when a cross-unit reference fact carries a fingerprint.
	// Only facts defined by the unit itself may be fingerprinted.
	ErrFingerprintOnReference = zerr.New("cross-unit reference must not carry a fingerprint")

	// ErrForeignNodeInSnapshot is returned when a snapshot claims a node is defined by some other unit.
	ErrForeignNodeInSnapshot = zerr.New("snapshot node claims residence in a foreign unit")

	// ErrGraphCorrupt is returned by Verify when a graph invariant is violated. It signals a bug in the
	// merge logic, never a user error.
	ErrGraphCorrupt = zerr.New("dependency graph invariant violated")

	// ErrUnknownUnit is returned when an operation references a unit the graph has never seen.
	ErrUnknownUnit = zerr.New("unknown unit")

	// ErrDuplicateTask is returned when a task is registered for a unit that already has a different task.
	ErrDuplicateTask = zerr.New("unit already has a task")

	// ErrSnapshotParseFailed is returned when snapshot YAML cannot be decoded.
	ErrSnapshotParseFailed = zerr.New("failed to parse snapshot")

	// ErrSnapshotInvalid is returned when decoded snapshot data violates the snapshot schema.
	ErrSnapshotInvalid = zerr.New("invalid snapshot")

	// ErrRenderFailed is returned when writing a graph rendering fails.
	ErrRenderFailed = zerr.New("failed to render graph")

	// ErrWatchFailed is returned when the file system watcher cannot be started.
	ErrWatchFailed = zerr.New("failed to watch snapshot directory")
)
