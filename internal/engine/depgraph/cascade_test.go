package depgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ripple/internal/core/domain"
	"go.trai.ch/ripple/internal/engine/depgraph"
)

// chainGraph builds a three-unit chain: b uses a's interface fact, c uses
// b's interface fact.
func chainGraph(t *testing.T) *depgraph.Graph {
	t.Helper()
	g := depgraph.New()

	sa := newSnap(unit("a.yaml"))
	addDecl(sa, nominal("A"), "fa")
	mustMerge(t, g, unit("a.yaml"), sa)

	sb := newSnap(unit("b.yaml"))
	addDecl(sb, nominal("B"), "fb")
	addRef(sb, nominal("A"))
	addUse(sb, nominal("A"), nominal("B"))
	mustMerge(t, g, unit("b.yaml"), sb)

	sc := newSnap(unit("c.yaml"))
	addDecl(sc, nominal("C"), "fc")
	addRef(sc, nominal("B"))
	addUse(sc, nominal("B"), nominal("C"))
	mustMerge(t, g, unit("c.yaml"), sc)

	return g
}

func TestTransitivelyAffected_Chain(t *testing.T) {
	g := chainGraph(t)

	affected := g.TransitivelyAffectedUnits(unit("a.yaml"))

	// The change ripples through b's interface to c.
	assert.Equal(t, []domain.InternedString{unit("b.yaml"), unit("c.yaml")}, affected)
	assert.True(t, g.IsCascading(unit("b.yaml")))
	assert.True(t, g.IsCascading(unit("c.yaml")))
}

func TestTransitivelyAffected_ExcludesStartingUnit(t *testing.T) {
	g := chainGraph(t)

	affected := g.TransitivelyAffectedUnits(unit("a.yaml"))

	assert.NotContains(t, affected, unit("a.yaml"))
}

func TestTransitivelyAffected_LeafUnit(t *testing.T) {
	g := chainGraph(t)

	assert.Empty(t, g.TransitivelyAffectedUnits(unit("c.yaml")))
}

func TestTransitivelyAffected_ImplementationUseStopsCascade(t *testing.T) {
	g := depgraph.New()

	sa := newSnap(unit("a.yaml"))
	addDecl(sa, nominal("A"), "fa")
	mustMerge(t, g, unit("a.yaml"), sa)

	// b's use of A is from an implementation fact: b rebuilds, but its own
	// users do not.
	sb := newSnap(unit("b.yaml"))
	addDecl(sb, implOf("B", "body"), "fb")
	addRef(sb, nominal("A"))
	addUse(sb, nominal("A"), implOf("B", "body"))
	mustMerge(t, g, unit("b.yaml"), sb)

	affected := g.TransitivelyAffectedUnits(unit("a.yaml"))

	assert.Equal(t, []domain.InternedString{unit("b.yaml")}, affected)
	assert.False(t, g.IsCascading(unit("b.yaml")))
}

func TestTransitivelyAffected_CycleTerminates(t *testing.T) {
	g := depgraph.New()

	sa := newSnap(unit("a.yaml"))
	addDecl(sa, nominal("A"), "fa")
	addRef(sa, nominal("B"))
	addUse(sa, nominal("B"), nominal("A"))
	mustMerge(t, g, unit("a.yaml"), sa)

	sb := newSnap(unit("b.yaml"))
	addDecl(sb, nominal("B"), "fb")
	addRef(sb, nominal("A"))
	addUse(sb, nominal("A"), nominal("B"))
	mustMerge(t, g, unit("b.yaml"), sb)

	assert.Equal(t, []domain.InternedString{unit("b.yaml")}, g.TransitivelyAffectedUnits(unit("a.yaml")))
	assert.Equal(t, []domain.InternedString{unit("a.yaml")}, g.TransitivelyAffectedUnits(unit("b.yaml")))
}

func TestTransitivelyAffected_MintsSyntheticTask(t *testing.T) {
	g := depgraph.New()

	sa := newSnap(unit("a.yaml"))
	addDecl(sa, nominal("A"), "fa")
	mustMerge(t, g, unit("a.yaml"), sa)

	// Merge b without registering a task for it first.
	sb := newSnap(unit("b.yaml"))
	addDecl(sb, nominal("B"), "fb")
	addRef(sb, nominal("A"))
	addUse(sb, nominal("A"), nominal("B"))
	_, err := g.Merge(unit("b.yaml"), sb)
	require.NoError(t, err)

	affected := g.TransitivelyAffectedUnits(unit("a.yaml"))
	require.Equal(t, []domain.InternedString{unit("b.yaml")}, affected)

	task, ok := g.TaskForUnit(unit("b.yaml"))
	assert.True(t, ok)
	assert.Equal(t, domain.SyntheticTask(unit("b.yaml")), task)
}

func TestTransitivelyAffected_EdgesAccumulateAcrossMerges(t *testing.T) {
	g := chainGraph(t)

	// b's latest snapshot no longer mentions A, but the accumulated edge
	// index keeps the old use: within a session invalidation stays
	// conservative rather than risking a missed rebuild.
	sb := newSnap(unit("b.yaml"))
	addDecl(sb, nominal("B"), "fb2")
	mustMerge(t, g, unit("b.yaml"), sb)

	affected := g.TransitivelyAffectedUnits(unit("a.yaml"))
	assert.Contains(t, affected, unit("b.yaml"))
}

func TestMarkForcedRebuild(t *testing.T) {
	g := depgraph.New()
	b := unit("b.yaml")

	assert.False(t, g.IsCascading(b))
	assert.True(t, g.MarkForcedRebuild(b))
	assert.False(t, g.MarkForcedRebuild(b))
	assert.True(t, g.IsCascading(b))
}

func externalChainGraph(t *testing.T) *depgraph.Graph {
	t.Helper()
	g := depgraph.New()

	// a uses the external input; b uses a's interface fact.
	sa := newSnap(unit("a.yaml"))
	addDecl(sa, nominal("A"), "fa")
	addRef(sa, domain.ExternalKey("libc"))
	addUse(sa, domain.ExternalKey("libc"), nominal("A"))
	mustMerge(t, g, unit("a.yaml"), sa)

	sb := newSnap(unit("b.yaml"))
	addDecl(sb, nominal("B"), "fb")
	addRef(sb, nominal("A"))
	addUse(sb, nominal("A"), nominal("B"))
	mustMerge(t, g, unit("b.yaml"), sb)

	return g
}

func TestAffectedByExternalDependency(t *testing.T) {
	g := externalChainGraph(t)

	affected := g.AffectedByExternalDependency("libc")

	assert.Equal(t, []domain.InternedString{unit("a.yaml"), unit("b.yaml")}, affected)
}

func TestAffectedByExternalDependency_UnknownName(t *testing.T) {
	g := externalChainGraph(t)

	assert.Empty(t, g.AffectedByExternalDependency("libm"))
}

func TestAffectedByExternalDependency_SkipsCascadingSeeds(t *testing.T) {
	g := externalChainGraph(t)

	// a already rebuilds unconditionally; the external change adds nothing.
	g.MarkForcedRebuild(unit("a.yaml"))

	assert.Empty(t, g.AffectedByExternalDependency("libc"))
}

func TestAllExternalDependencies(t *testing.T) {
	g := externalChainGraph(t)

	keys := g.AllExternalDependencies()
	require.Len(t, keys, 1)
	assert.Equal(t, domain.ExternalKey("libc"), keys[0])
}
