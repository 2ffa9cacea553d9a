// Package dot renders the dependency graph in Graphviz DOT format for
// debugging and offline inspection.
package dot

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"go.trai.ch/zerr"

	"go.trai.ch/ripple/internal/core/domain"
	"go.trai.ch/ripple/internal/core/ports"
)

// Renderer writes a ports.GraphView as a Graphviz digraph. Output is
// deterministic: nodes and edges are sorted before emission so the same
// graph always renders to the same bytes.
type Renderer struct{}

// NewRenderer returns a ready-to-use Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render writes the graph to w.
func (r *Renderer) Render(w io.Writer, g ports.GraphView) error {
	var nodes []domain.Node
	g.ForEachNode(func(n domain.Node) {
		nodes = append(nodes, n)
	})
	sort.Slice(nodes, func(i, j int) bool {
		if c := nodes[i].Key.Compare(nodes[j].Key); c != 0 {
			return c < 0
		}
		return nodes[i].Unit.String() < nodes[j].Unit.String()
	})

	type edge struct {
		def, use domain.DependencyKey
	}
	var edges []edge
	g.ForEachUseEdge(func(def, use domain.DependencyKey) {
		edges = append(edges, edge{def: def, use: use})
	})
	sort.Slice(edges, func(i, j int) bool {
		if c := edges[i].def.Compare(edges[j].def); c != 0 {
			return c < 0
		}
		return edges[i].use.Compare(edges[j].use) < 0
	})

	var sb strings.Builder
	sb.WriteString("digraph ripple {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box, fontname=Courier];\n")
	sb.WriteString("\n")

	for _, n := range nodes {
		id := nodeID(n.Key)
		label := n.Key.String()
		if n.Resident() {
			label = fmt.Sprintf("%s\n%s", label, n.Unit)
			color := "white"
			if n.Key.IsInterface() {
				color = "lightyellow"
			}
			fmt.Fprintf(&sb, "  %q [label=%q, style=filled, fillcolor=%s];\n", id, label, color)
		} else {
			fmt.Fprintf(&sb, "  %q [label=%q, style=dashed, color=gray];\n", id, label)
		}
	}
	if len(nodes) > 0 {
		sb.WriteString("\n")
	}

	for _, e := range edges {
		fmt.Fprintf(&sb, "  %q -> %q;\n", nodeID(e.def), nodeID(e.use))
	}

	sb.WriteString("}\n")

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return zerr.Wrap(err, domain.ErrRenderFailed.Error())
	}
	return nil
}

func nodeID(k domain.DependencyKey) string {
	return k.String()
}
