package depgraph

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the session graph Graft node.
const NodeID graft.ID = "engine.depgraph"

func init() {
	graft.Register(graft.Node[*Graph]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Graph, error) {
			return New(), nil
		},
	})
}
