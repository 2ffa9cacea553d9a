package depgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ripple/internal/core/domain"
	"go.trai.ch/ripple/internal/engine/depgraph"
)

func TestRegisterTask(t *testing.T) {
	g := depgraph.New()
	a := unit("a.yaml")

	require.NoError(t, g.RegisterTask("compile-a", a))

	task, ok := g.TaskForUnit(a)
	require.True(t, ok)
	assert.Equal(t, domain.TaskID("compile-a"), task)

	u, ok := g.UnitForTask("compile-a")
	require.True(t, ok)
	assert.Equal(t, a, u)
}

func TestRegisterTask_SamePairIsIdempotent(t *testing.T) {
	g := depgraph.New()
	a := unit("a.yaml")

	require.NoError(t, g.RegisterTask("compile-a", a))
	require.NoError(t, g.RegisterTask("compile-a", a))
}

func TestRegisterTask_ConflictRejected(t *testing.T) {
	g := depgraph.New()
	a := unit("a.yaml")

	require.NoError(t, g.RegisterTask("compile-a", a))

	err := g.RegisterTask("compile-a2", a)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateTask)
}

func TestForEachUseEdge(t *testing.T) {
	g := chainGraph(t)

	type edge struct{ def, use domain.DependencyKey }
	var edges []edge
	g.ForEachUseEdge(func(def, use domain.DependencyKey) {
		edges = append(edges, edge{def, use})
	})

	assert.Contains(t, edges, edge{nominal("A"), nominal("B")})
	assert.Contains(t, edges, edge{nominal("B"), nominal("C")})
	assert.Len(t, edges, 2)
}

func TestForEachUseOf(t *testing.T) {
	g := chainGraph(t)

	var users []domain.Node
	g.ForEachUseOf(nominal("A"), func(n domain.Node) {
		users = append(users, n)
	})

	require.Len(t, users, 1)
	assert.Equal(t, nominal("B"), users[0].Key)
	assert.Equal(t, unit("b.yaml"), users[0].Unit)
}

func TestVerify_EmptyGraph(t *testing.T) {
	assert.NoError(t, depgraph.New().Verify())
}

func TestVerify_AfterResidencyChurn(t *testing.T) {
	g := depgraph.New()
	a := unit("a.yaml")
	b := unit("b.yaml")

	// b references Shape, a defines it, then a demotes it again. Every
	// intermediate state must satisfy the structural invariants; mustMerge
	// verifies after each step.
	sb := newSnap(b)
	addDecl(sb, nominal("B"), "fb")
	addRef(sb, nominal("Shape"))
	addUse(sb, nominal("Shape"), nominal("B"))
	mustMerge(t, g, b, sb)

	sa := newSnap(a)
	addDecl(sa, nominal("Shape"), "fs")
	mustMerge(t, g, a, sa)

	sa2 := newSnap(a)
	addDecl(sa2, nominal("A"), "fa")
	addRef(sa2, nominal("Shape"))
	addUse(sa2, nominal("Shape"), nominal("A"))
	mustMerge(t, g, a, sa2)

	require.NoError(t, g.Verify())
	nodes := matchingNodes(g, nominal("Shape"))
	require.Len(t, nodes, 1)
	assert.False(t, nodes[0].Resident())
}
