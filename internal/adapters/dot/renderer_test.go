package dot

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ripple/internal/core/domain"
)

type stubView struct {
	nodes []domain.Node
	edges [][2]domain.DependencyKey
}

func (v *stubView) ForEachNode(fn func(domain.Node)) {
	for _, n := range v.nodes {
		fn(n)
	}
}

func (v *stubView) ForEachUseEdge(fn func(def, use domain.DependencyKey)) {
	for _, e := range v.edges {
		fn(e[0], e[1])
	}
}

func TestRender(t *testing.T) {
	shape := domain.DependencyKey{Kind: domain.KindNominal, Aspect: domain.AspectInterface, Name: "Shape"}
	area := domain.DependencyKey{Kind: domain.KindMember, Aspect: domain.AspectInterface, Context: "Shape", Name: "area"}
	draw := domain.DependencyKey{Kind: domain.KindTopLevel, Aspect: domain.AspectImplementation, Name: "draw"}

	view := &stubView{
		// Deliberately unsorted: the renderer must order output itself.
		nodes: []domain.Node{
			{Key: area},
			{Key: shape, Fingerprint: "aa", Unit: domain.NewInternedString("shapes.yaml")},
			{Key: draw, Unit: domain.NewInternedString("render.yaml")},
		},
		edges: [][2]domain.DependencyKey{
			{shape, area},
			{shape, draw},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewRenderer().Render(&buf, view))

	g := goldie.New(t)
	g.Assert(t, "render", buf.Bytes())
}

func TestRenderEmptyGraph(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer().Render(&buf, &stubView{}))

	out := buf.String()
	assert.Contains(t, out, "digraph ripple {")
	assert.Contains(t, out, "}\n")
	assert.NotContains(t, out, "->")
}
