package snapshot

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ripple/internal/core/ports"
)

// NodeID is the unique identifier for the snapshot loader Graft node.
const NodeID graft.ID = "adapter.snapshot"

func init() {
	graft.Register(graft.Node[ports.SnapshotLoader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.SnapshotLoader, error) {
			return NewLoader(), nil
		},
	})
}
