package ports

import (
	"io"

	"go.trai.ch/ripple/internal/core/domain"
)

// GraphView is the read-only slice of the dependency graph a renderer needs.
// Callbacks receive value copies; a renderer can never mutate graph state.
type GraphView interface {
	// ForEachNode visits every node in the graph in unspecified order.
	ForEachNode(fn func(n domain.Node))
	// ForEachUseEdge visits every accumulated def→use edge.
	ForEachUseEdge(fn func(def, use domain.DependencyKey))
}

// GraphRenderer produces a human-readable rendering of the dependency graph.
// Rendering is an external concern; the engine only exposes iteration.
//
//go:generate go run go.uber.org/mock/mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type GraphRenderer interface {
	Render(w io.Writer, g GraphView) error
}
