package ports

import "go.trai.ch/ripple/internal/core/domain"

// SnapshotLoader deserializes a unit's dependency snapshot from its on-disk
// representation. The engine treats the byte format as opaque.
//
//go:generate go run go.uber.org/mock/mockgen -source=snapshot_loader.go -destination=mocks/mock_snapshot_loader.go -package=mocks
type SnapshotLoader interface {
	// Load parses a snapshot from raw bytes. It returns a nil snapshot and
	// an error on malformed input; it never returns a partial snapshot.
	Load(source []byte) (*domain.UnitSnapshot, error)
}
