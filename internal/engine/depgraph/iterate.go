package depgraph

import "go.trai.ch/ripple/internal/core/domain"

// Read-only iteration for diagnostics and visualization tooling. Callbacks
// receive value copies; the graph's own nodes are never exposed.

// ForEachNode visits every node in the graph, residents and expatriates.
func (g *Graph) ForEachNode(fn func(n domain.Node)) {
	for _, byKey := range g.nodesByUnit {
		for _, n := range byKey {
			fn(n.view())
		}
	}
	for _, n := range g.expatriates {
		fn(n.view())
	}
}

// ForEachMatchingNode visits every node for a key regardless of owning unit.
func (g *Graph) ForEachMatchingNode(key domain.DependencyKey, fn func(n domain.Node)) {
	g.forEachNodeMatching(key, func(n *node) {
		fn(n.view())
	})
}

// ForEachUseEdge visits every accumulated def→use edge as a key pair.
func (g *Graph) ForEachUseEdge(fn func(def, use domain.DependencyKey)) {
	for defHash, targets := range g.adjacency() {
		def, err := g.uses.Vertex(defHash)
		if err != nil {
			continue
		}
		for useHash := range targets {
			use, err := g.uses.Vertex(useHash)
			if err != nil {
				continue
			}
			fn(def, use)
		}
	}
}

// ForEachUseOf visits every node whose key uses the given def key.
func (g *Graph) ForEachUseOf(def domain.DependencyKey, fn func(n domain.Node)) {
	adj := g.adjacency()
	for useHash := range adj[def.Hash()] {
		useKey, err := g.uses.Vertex(useHash)
		if err != nil {
			continue
		}
		g.ForEachMatchingNode(useKey, fn)
	}
}
