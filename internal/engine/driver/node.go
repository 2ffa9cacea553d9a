package driver

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/ripple/internal/adapters/dot"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ripple/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ripple/internal/adapters/snapshot"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ripple/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ripple/internal/core/ports"
	"go.trai.ch/ripple/internal/engine/depgraph"
)

// NodeID is the unique identifier for the driver Graft node.
const NodeID graft.ID = "engine.driver"

func init() {
	graft.Register(graft.Node[*Driver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			depgraph.NodeID,
			snapshot.NodeID,
			logger.NodeID,
			telemetry.NodeID,
			dot.NodeID,
		},
		Run: func(ctx context.Context) (*Driver, error) {
			g, err := graft.Dep[*depgraph.Graph](ctx)
			if err != nil {
				return nil, err
			}

			loader, err := graft.Dep[ports.SnapshotLoader](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			var opts []Option
			if os.Getenv("RIPPLE_DEBUG") != "" {
				renderer, err := graft.Dep[ports.GraphRenderer](ctx)
				if err != nil {
					return nil, err
				}
				opts = append(opts, WithDebug(renderer))
			}

			return New(g, loader, log, tracer, opts...), nil
		},
	})
}
