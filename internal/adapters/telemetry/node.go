package telemetry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	progrocktracer "go.trai.ch/ripple/internal/adapters/telemetry/progrock"
	"go.trai.ch/ripple/internal/core/ports"
)

// NodeID is the unique identifier for the telemetry adapter Graft node.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Tracer, error) {
			// Tracing is opt-in: vertices are only worth recording when
			// someone asked to see them.
			if os.Getenv("RIPPLE_TRACE") != "" {
				return progrocktracer.New(), nil
			}
			return NewNoOpTracer(), nil
		},
	})
}
