// Package visualizer renders a recorded execution graph as Graphviz DOT text
// or a PNG image, for ad hoc inspection of one iteration's schedule.
package visualizer

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/NicoJuicy/coyote/graph"
)

// edgeColor mirrors the teacher's probability-banded edge coloring, here
// banded by edge category instead of a probability weight.
func edgeColor(category graph.Category) string {
	switch category {
	case graph.Creation:
		return "indianred"
	case graph.Step:
		return "gray"
	default:
		return "black"
	}
}

// WriteDOT renders nodes and edges as plain Graphviz DOT text to w. This is
// the format cmd/coyote-graph writes directly to a .dot file and the form
// RenderPNG's cgraph graph is built from.
func WriteDOT(w io.Writer, nodes []graph.Node, edges []graph.Edge) error {
	if _, err := fmt.Fprintln(w, "digraph ExecutionGraph {"); err != nil {
		return err
	}
	for _, n := range nodes {
		label := fmt.Sprintf("%d: %s", n.Index, n.CallSite)
		if _, err := fmt.Fprintf(w, "  n%d [label=%s];\n", n.Index, strconv.Quote(label)); err != nil {
			return err
		}
	}
	for _, e := range edges {
		if _, err := fmt.Fprintf(w, "  n%d -> n%d [label=%s, color=%s];\n",
			e.Source, e.Target, strconv.Quote(e.Category.String()), edgeColor(e.Category)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

// RenderPNG renders nodes and edges to a PNG image at path, using the
// goccy/go-graphviz bindings to lay out and rasterize the graph.
func RenderPNG(path string, nodes []graph.Node, edges []graph.Edge) (err error) {
	gv := graphviz.New()
	g, err := gv.Graph()
	if err != nil {
		return fmt.Errorf("visualizer: create graph: %w", err)
	}
	defer func() {
		err = errors.Join(err, g.Close(), gv.Close())
	}()

	cgNodes := make(map[int32]*cgraph.Node, len(nodes))
	for _, n := range nodes {
		name := fmt.Sprintf("n%d", n.Index)
		node, nerr := g.CreateNode(name)
		if nerr != nil {
			return fmt.Errorf("visualizer: create node %s: %w", name, nerr)
		}
		node.SetLabel(fmt.Sprintf("%d: %s", n.Index, n.CallSite))
		cgNodes[n.Index] = node
	}

	for i, e := range edges {
		src, ok := cgNodes[e.Source]
		if !ok {
			return fmt.Errorf("visualizer: edge %d references unknown source node %d", i, e.Source)
		}
		dst, ok := cgNodes[e.Target]
		if !ok {
			return fmt.Errorf("visualizer: edge %d references unknown target node %d", i, e.Target)
		}
		edge, eerr := g.CreateEdge(fmt.Sprintf("e%d", i), src, dst)
		if eerr != nil {
			return fmt.Errorf("visualizer: create edge %d: %w", i, eerr)
		}
		edge.SetLabel(e.Category.String())
		edge.SetColor(edgeColor(e.Category))
	}

	if err := gv.RenderFilename(g, graphviz.PNG, path); err != nil {
		return fmt.Errorf("visualizer: render PNG: %w", err)
	}
	return nil
}
