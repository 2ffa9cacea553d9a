// Package depgraph implements the session-wide incremental dependency graph:
// per-unit snapshots are merged into one persistent graph, and cascade
// analysis over the accumulated use edges decides which other compilation
// tasks a change invalidates.
package depgraph

import (
	"errors"
	"slices"
	"strings"

	graphlib "github.com/dominikbraun/graph"
	"go.trai.ch/ripple/internal/core/domain"
	"go.trai.ch/zerr"
)

// node is a persistent node owned by the Graph. External callers only ever
// see value copies (domain.Node); relocation between resident and expatriate
// status is an index update internal to this package.
type node struct {
	key         domain.DependencyKey
	fingerprint domain.Fingerprint
	unit        domain.InternedString // zero = expatriate
}

func (n *node) view() domain.Node {
	return domain.Node{Key: n.key, Fingerprint: n.fingerprint, Unit: n.unit}
}

// Graph is the persistent whole-program dependency graph for one build
// session. It is the only shared mutable state of the engine and must be
// mutated from a single goroutine; merges and cascade queries are
// synchronous and never block.
type Graph struct {
	// nodesByUnit indexes resident nodes by owning unit, then key.
	// Within one unit, keys are unique.
	nodesByUnit map[domain.InternedString]map[domain.DependencyKey]*node

	// nodesByKey is the cross index: resident nodes for a key across all
	// units. Kept consistent with nodesByUnit by construction.
	nodesByKey map[domain.DependencyKey]map[domain.InternedString]*node

	// expatriates holds the at-most-one unowned node per key. A key never
	// has both an expatriate node and resident nodes.
	expatriates map[domain.DependencyKey]*node

	// uses is the accumulated def→use edge index: an edge def→u means u
	// depends on def. Edges are only ever added, never pruned on re-merge.
	uses graphlib.Graph[string, domain.DependencyKey]

	// externals is every external-dependency key ever observed.
	externals map[domain.DependencyKey]struct{}

	// cascading is the set of units whose interface facts force downstream
	// rebuilds regardless of fingerprints. Monotone for the session.
	cascading map[domain.InternedString]struct{}

	unitByTask map[domain.TaskID]domain.InternedString
	taskByUnit map[domain.InternedString]domain.TaskID
}

// New creates an empty session graph.
func New() *Graph {
	return &Graph{
		nodesByUnit: make(map[domain.InternedString]map[domain.DependencyKey]*node),
		nodesByKey:  make(map[domain.DependencyKey]map[domain.InternedString]*node),
		expatriates: make(map[domain.DependencyKey]*node),
		uses:        graphlib.New(domain.DependencyKey.Hash, graphlib.Directed()),
		externals:   make(map[domain.DependencyKey]struct{}),
		cascading:   make(map[domain.InternedString]struct{}),
		unitByTask:  make(map[domain.TaskID]domain.InternedString),
		taskByUnit:  make(map[domain.InternedString]domain.TaskID),
	}
}

// RegisterTask records the correspondence between a scheduler task and the
// unit it compiles. No nodes are created; those appear when the unit's
// snapshot is merged.
func (g *Graph) RegisterTask(task domain.TaskID, unit domain.InternedString) error {
	if existing, ok := g.taskByUnit[unit]; ok && existing != task {
		return zerr.With(zerr.With(domain.ErrDuplicateTask,
			"unit", unit.String()),
			"task", string(existing),
		)
	}
	g.taskByUnit[unit] = task
	g.unitByTask[task] = unit
	return nil
}

// UnitForTask returns the unit a task compiles.
func (g *Graph) UnitForTask(task domain.TaskID) (domain.InternedString, bool) {
	unit, ok := g.unitByTask[task]
	return unit, ok
}

// TaskForUnit returns the task registered for a unit.
func (g *Graph) TaskForUnit(unit domain.InternedString) (domain.TaskID, bool) {
	task, ok := g.taskByUnit[unit]
	return task, ok
}

// ensureTaskTracked guarantees a unit has a task correspondence, minting a
// synthetic one for units first discovered through cascade analysis.
func (g *Graph) ensureTaskTracked(unit domain.InternedString) domain.TaskID {
	if task, ok := g.taskByUnit[unit]; ok {
		return task
	}
	task := domain.SyntheticTask(unit)
	g.taskByUnit[unit] = task
	g.unitByTask[task] = unit
	return task
}

// AllExternalDependencies returns every external-dependency key observed
// during the session, in key order.
func (g *Graph) AllExternalDependencies() []domain.DependencyKey {
	out := make([]domain.DependencyKey, 0, len(g.externals))
	for key := range g.externals {
		out = append(out, key)
	}
	slices.SortFunc(out, domain.DependencyKey.Compare)
	return out
}

// insert adds a node to the indices appropriate for its residency.
func (g *Graph) insert(n *node) {
	if n.unit.IsZero() {
		g.expatriates[n.key] = n
		return
	}
	byKey, ok := g.nodesByUnit[n.unit]
	if !ok {
		byKey = make(map[domain.DependencyKey]*node)
		g.nodesByUnit[n.unit] = byKey
	}
	byKey[n.key] = n

	byUnit, ok := g.nodesByKey[n.key]
	if !ok {
		byUnit = make(map[domain.InternedString]*node)
		g.nodesByKey[n.key] = byUnit
	}
	byUnit[n.unit] = n
}

// remove deletes a node from the indices it currently occupies.
func (g *Graph) remove(n *node) {
	if n.unit.IsZero() {
		delete(g.expatriates, n.key)
		return
	}
	if byKey, ok := g.nodesByUnit[n.unit]; ok {
		delete(byKey, n.key)
		if len(byKey) == 0 {
			delete(g.nodesByUnit, n.unit)
		}
	}
	if byUnit, ok := g.nodesByKey[n.key]; ok {
		delete(byUnit, n.unit)
		if len(byUnit) == 0 {
			delete(g.nodesByKey, n.key)
		}
	}
}

// relocate moves a node between residency states. Promotion gives an
// expatriate node an owning unit; demotion clears it.
func (g *Graph) relocate(n *node, unit domain.InternedString) {
	g.remove(n)
	n.unit = unit
	g.insert(n)
}

// residentInPlace returns the resident node for (unit, key), if any.
func (g *Graph) residentInPlace(unit domain.InternedString, key domain.DependencyKey) *node {
	return g.nodesByUnit[unit][key]
}

// recordUses accumulates def→use edges into the edge index. Self edges are
// dropped; duplicate vertices and edges are tolerated since the index is
// monotone across re-merges.
func (g *Graph) recordUses(def domain.DependencyKey, uses []domain.DependencyKey) {
	if len(uses) == 0 {
		return
	}
	g.addVertex(def)
	for _, use := range uses {
		if use == def {
			continue
		}
		g.addVertex(use)
		if err := g.uses.AddEdge(def.Hash(), use.Hash()); err != nil &&
			!errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
			// Both vertices exist and the graph permits no other failure.
			panic(err)
		}
	}
}

func (g *Graph) addVertex(key domain.DependencyKey) {
	if err := g.uses.AddVertex(key); err != nil &&
		!errors.Is(err, graphlib.ErrVertexAlreadyExists) {
		panic(err)
	}
}

// adjacency materializes the edge index once per traversal.
func (g *Graph) adjacency() map[string]map[string]graphlib.Edge[string] {
	adj, err := g.uses.AdjacencyMap()
	if err != nil {
		// AdjacencyMap only fails on store errors; the default store is
		// in-memory and infallible.
		panic(err)
	}
	return adj
}

func sortUnits(units map[domain.InternedString]struct{}) []domain.InternedString {
	out := make([]domain.InternedString, 0, len(units))
	for u := range units {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b domain.InternedString) int {
		return strings.Compare(a.String(), b.String())
	})
	return out
}
