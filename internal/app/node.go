package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ripple/internal/adapters/dot"     //nolint:depguard // Wired in app layer
	"go.trai.ch/ripple/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/ripple/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/ripple/internal/core/ports"
	"go.trai.ch/ripple/internal/engine/driver"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			driver.NodeID,
			logger.NodeID,
			dot.NodeID,
			watcher.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			d, err := graft.Dep[*driver.Driver](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			renderer, err := graft.Dep[ports.GraphRenderer](ctx)
			if err != nil {
				return nil, err
			}

			w, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}

			return New(d, log, renderer, w), nil
		},
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: a, Logger: log}, nil
		},
	})
}
