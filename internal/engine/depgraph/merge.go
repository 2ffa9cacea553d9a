package depgraph

import (
	"slices"

	"go.trai.ch/ripple/internal/core/domain"
	"go.trai.ch/zerr"
)

// LoadResult reports the outcome of integrating one unit's snapshot.
type LoadResult int

const (
	// LoadResultUpToDate means the merge observed no changes.
	LoadResultUpToDate LoadResult = iota
	// LoadResultAffectsDownstream means at least one key changed and
	// dependent tasks must be recomputed.
	LoadResultAffectsDownstream
	// LoadResultHadError means the snapshot could not be obtained; the
	// graph was left untouched.
	LoadResultHadError
)

// String returns the result name for diagnostics.
func (r LoadResult) String() string {
	switch r {
	case LoadResultUpToDate:
		return "up-to-date"
	case LoadResultAffectsDownstream:
		return "affects-downstream"
	case LoadResultHadError:
		return "had-error"
	default:
		return "unknown"
	}
}

// MergeResult carries the merge outcome together with the keys that changed,
// so the caller can seed cascade analysis from exactly what moved.
type MergeResult struct {
	Result  LoadResult
	Changed []domain.DependencyKey
}

// Merge integrates one unit's freshly loaded snapshot into the graph,
// replacing whatever state a previous merge of the same unit left behind.
// It either completes and mutates the graph, or fails before any mutation;
// a non-nil error always means the graph is unchanged.
func (g *Graph) Merge(unit domain.InternedString, snap *domain.UnitSnapshot) (MergeResult, error) {
	if snap == nil {
		return MergeResult{Result: LoadResultHadError},
			zerr.With(domain.ErrSnapshotLoadFailed, "unit", unit.String())
	}
	if err := validateSnapshot(unit, snap); err != nil {
		return MergeResult{Result: LoadResultHadError}, err
	}

	changed := make(map[domain.DependencyKey]struct{})

	// Nodes resident here before the merge and not revisited below have
	// disappeared from the unit's latest compilation.
	disappeared := make(map[domain.DependencyKey]*node, len(g.nodesByUnit[unit]))
	for key, n := range g.nodesByUnit[unit] {
		disappeared[key] = n
	}

	for _, sn := range snap.Nodes {
		// Edges first, so cascade analysis sees fresh edge data even for
		// keys whose node reconciliation below reports no change.
		g.recordUses(sn.Key, snap.Uses[sn.Key])

		if sn.Key.Kind == domain.KindExternal {
			g.externals[sn.Key] = struct{}{}
		}

		inPlace := g.residentInPlace(unit, sn.Key)
		if inPlace != nil {
			delete(disappeared, sn.Key)
		}

		var didChange bool
		if sn.Resident() {
			didChange = g.integrateDecl(sn, inPlace)
		} else {
			didChange = g.integrateReference(unit, sn, inPlace)
		}
		if didChange {
			changed[sn.Key] = struct{}{}
		}
	}

	for key, n := range disappeared {
		changed[key] = struct{}{}
		g.remove(n)
	}

	res := MergeResult{Result: LoadResultUpToDate}
	if len(changed) > 0 {
		res.Result = LoadResultAffectsDownstream
		res.Changed = make([]domain.DependencyKey, 0, len(changed))
		for key := range changed {
			res.Changed = append(res.Changed, key)
		}
		slices.SortFunc(res.Changed, domain.DependencyKey.Compare)
	}
	return res, nil
}

// validateSnapshot enforces the loader contract before any mutation, so a
// failed merge never leaves partial state behind.
func validateSnapshot(unit domain.InternedString, snap *domain.UnitSnapshot) error {
	if snap.Unit != unit {
		return zerr.With(zerr.With(domain.ErrSnapshotUnitMismatch,
			"unit", unit.String()),
			"snapshot_unit", snap.Unit.String(),
		)
	}
	for _, sn := range snap.Nodes {
		if sn.Resident() && sn.Unit != unit {
			return zerr.With(zerr.With(zerr.With(domain.ErrForeignNodeInSnapshot,
				"unit", unit.String()),
				"key", sn.Key.String()),
				"claimed_unit", sn.Unit.String(),
			)
		}
		if !sn.Resident() && !sn.Fingerprint.IsAbsent() {
			return zerr.With(zerr.With(domain.ErrFingerprintOnReference,
				"unit", unit.String()),
				"key", sn.Key.String(),
			)
		}
	}
	return nil
}

// integrateDecl reconciles a fact the snapshot's unit defines.
func (g *Graph) integrateDecl(sn domain.Node, inPlace *node) bool {
	if inPlace != nil {
		// Same decl seen again: only a fingerprint difference (or an
		// absent fingerprint on either side) counts as a change.
		changed := !inPlace.fingerprint.Matches(sn.Fingerprint)
		inPlace.fingerprint = sn.Fingerprint
		return changed
	}

	if expat, ok := g.expatriates[sn.Key]; ok {
		// Some other unit depended on this key before anyone defined it.
		// Promote the expatriate: new residency is itself a change.
		g.relocate(expat, sn.Unit)
		expat.fingerprint = sn.Fingerprint
		return true
	}

	g.insert(&node{key: sn.Key, fingerprint: sn.Fingerprint, unit: sn.Unit})
	return true
}

// integrateReference reconciles a pure cross-unit reference: a fact the unit
// uses without claiming to define it.
func (g *Graph) integrateReference(unit domain.InternedString, sn domain.Node, inPlace *node) bool {
	if _, ok := g.expatriates[sn.Key]; ok {
		// Already tracked as an unowned reference.
		return false
	}
	for other := range g.nodesByKey[sn.Key] {
		if other != unit {
			// Another unit defines this key; the reference is satisfied.
			return false
		}
	}

	if inPlace != nil {
		// The unit used to define this key and now merely references it:
		// demote the resident node to expatriate.
		g.relocate(inPlace, domain.InternedString{})
		inPlace.fingerprint = sn.Fingerprint
		return true
	}

	g.insert(&node{key: sn.Key, fingerprint: sn.Fingerprint})
	return true
}
