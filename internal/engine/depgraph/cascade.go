package depgraph

import (
	graphlib "github.com/dominikbraun/graph"
	"go.trai.ch/ripple/internal/core/domain"
)

// TransitivelyAffectedUnits walks the use-edge index from every resident
// node of the given unit and returns the distinct owning units of all
// reachable resident nodes, in unit order, excluding the starting unit.
// Whenever an interface-kind use is discovered, the using unit is flagged
// cascading for the rest of the session. Every returned unit is guaranteed
// to have a task correspondence.
func (g *Graph) TransitivelyAffectedUnits(unit domain.InternedString) []domain.InternedString {
	adj := g.adjacency()

	visited := make(map[*node]struct{})
	stack := make([]*node, 0, len(g.nodesByUnit[unit]))
	for _, n := range g.nodesByUnit[unit] {
		stack = append(stack, n)
	}
	g.traverse(adj, visited, stack)

	units := make(map[domain.InternedString]struct{})
	for n := range visited {
		if n.unit.IsZero() || n.unit == unit {
			continue
		}
		units[n.unit] = struct{}{}
	}
	for u := range units {
		g.ensureTaskTracked(u)
	}
	return sortUnits(units)
}

// traverse runs the worklist DFS over the use-edge index. The visited set
// keys on node identity, so cycles terminate and each node is expanded at
// most once per call. An explicit stack replaces recursion; large graphs
// with deep use chains must not be bounded by goroutine stack depth.
func (g *Graph) traverse(
	adj map[string]map[string]graphlib.Edge[string],
	visited map[*node]struct{},
	stack []*node,
) {
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[n]; seen {
			continue
		}
		visited[n] = struct{}{}

		for useHash := range adj[n.key.Hash()] {
			useKey, err := g.uses.Vertex(useHash)
			if err != nil {
				continue
			}
			interfaceUse := useKey.IsInterface()
			g.forEachNodeMatching(useKey, func(u *node) {
				if interfaceUse && !u.unit.IsZero() {
					g.cascading[u.unit] = struct{}{}
				}
				stack = append(stack, u)
			})
		}
	}
}

// forEachNodeMatching visits every node for a key regardless of unit: all
// residents plus the expatriate, if one exists.
func (g *Graph) forEachNodeMatching(key domain.DependencyKey, fn func(*node)) {
	for _, n := range g.nodesByKey[key] {
		fn(n)
	}
	if expat, ok := g.expatriates[key]; ok {
		fn(expat)
	}
}

// MarkForcedRebuild unconditionally flags a unit as cascading. It returns
// true if the unit was not already flagged; the flag never clears within a
// session.
func (g *Graph) MarkForcedRebuild(unit domain.InternedString) bool {
	if _, ok := g.cascading[unit]; ok {
		return false
	}
	g.cascading[unit] = struct{}{}
	return true
}

// IsCascading reports whether uses of the unit's interface facts always
// force downstream rebuilds.
func (g *Graph) IsCascading(unit domain.InternedString) bool {
	_, ok := g.cascading[unit]
	return ok
}

// AffectedByExternalDependency returns the units that must rebuild because
// the named external input changed: every unit with a recorded use of the
// external key, plus everything transitively downstream of those units.
// Units already flagged cascading are rebuilt anyway and are skipped as
// cascade seeds.
func (g *Graph) AffectedByExternalDependency(name string) []domain.InternedString {
	key := domain.ExternalKey(name)
	adj := g.adjacency()

	units := make(map[domain.InternedString]struct{})
	for useHash := range adj[key.Hash()] {
		useKey, err := g.uses.Vertex(useHash)
		if err != nil {
			continue
		}
		g.forEachNodeMatching(useKey, func(u *node) {
			if u.unit.IsZero() || g.IsCascading(u.unit) {
				return
			}
			if _, ok := units[u.unit]; ok {
				return
			}
			units[u.unit] = struct{}{}
			for _, downstream := range g.TransitivelyAffectedUnits(u.unit) {
				units[downstream] = struct{}{}
			}
		})
	}
	for u := range units {
		g.ensureTaskTracked(u)
	}
	return sortUnits(units)
}
