package depgraph

import (
	"go.trai.ch/ripple/internal/core/domain"
	"go.trai.ch/zerr"
)

// Verify checks the graph's structural invariants and returns an error
// describing the first violation found. A violation signals a bug in the
// merge logic, never bad user input. Verify is a debug and test aid; normal
// operation does not call it.
func (g *Graph) Verify() error {
	// Resident nodes: bucket agreement between the two indices, key
	// uniqueness per unit (given by map shape), and mutual exclusion with
	// expatriates.
	for unit, byKey := range g.nodesByUnit {
		for key, n := range byKey {
			if n.unit != unit {
				return corrupt("node misplaced for unit", n, "bucket_unit", unit.String())
			}
			if n.key != key {
				return corrupt("node misplaced for key", n, "bucket_key", key.String())
			}
			if g.nodesByKey[key][unit] != n {
				return corrupt("node missing from cross index", n)
			}
			if _, ok := g.expatriates[key]; ok {
				return corrupt("key has both resident and expatriate nodes", n)
			}
			if err := g.verifyExternalTracked(key); err != nil {
				return err
			}
		}
		if _, ok := g.taskByUnit[unit]; !ok {
			return zerr.With(zerr.With(domain.ErrGraphCorrupt,
				"violation", "unit has no task correspondence"),
				"unit", unit.String(),
			)
		}
	}

	// Cross index must not contain entries the unit index lacks.
	for key, byUnit := range g.nodesByKey {
		for unit, n := range byUnit {
			if g.nodesByUnit[unit][key] != n {
				return corrupt("cross index entry without unit index entry", n)
			}
		}
	}

	// Expatriates: at most one per key is given by the map shape; each must
	// be unowned and have no resident siblings.
	for key, n := range g.expatriates {
		if !n.unit.IsZero() {
			return corrupt("expatriate node has an owning unit", n)
		}
		if n.key != key {
			return corrupt("expatriate misplaced for key", n, "bucket_key", key.String())
		}
		if len(g.nodesByKey[key]) != 0 {
			return corrupt("expatriate coexists with resident nodes", n)
		}
		if err := g.verifyExternalTracked(key); err != nil {
			return err
		}
	}

	// Task correspondence must be bidirectionally consistent.
	for task, unit := range g.unitByTask {
		if g.taskByUnit[unit] != task {
			return zerr.With(zerr.With(zerr.With(domain.ErrGraphCorrupt,
				"violation", "task correspondence not bidirectional"),
				"task", string(task)),
				"unit", unit.String(),
			)
		}
	}
	for unit, task := range g.taskByUnit {
		if g.unitByTask[task] != unit {
			return zerr.With(zerr.With(zerr.With(domain.ErrGraphCorrupt,
				"violation", "unit correspondence not bidirectional"),
				"task", string(task)),
				"unit", unit.String(),
			)
		}
	}

	return nil
}

// verifyExternalTracked ensures every external-dependency key present in the
// node indices is tracked in the externals set.
func (g *Graph) verifyExternalTracked(key domain.DependencyKey) error {
	if key.Kind != domain.KindExternal {
		return nil
	}
	if _, ok := g.externals[key]; !ok {
		return zerr.With(zerr.With(domain.ErrGraphCorrupt,
			"violation", "external dependency not tracked"),
			"key", key.String(),
		)
	}
	return nil
}

func corrupt(violation string, n *node, kv ...any) error {
	meta := append([]any{
		"violation", violation,
		"node", n.view().String(),
	}, kv...)
	err := error(domain.ErrGraphCorrupt)
	for i := 0; i+1 < len(meta); i += 2 {
		key, _ := meta[i].(string)
		err = zerr.With(err, key, meta[i+1])
	}
	return err
}
