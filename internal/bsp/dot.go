package bsp

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/goccy/go-graphviz"
)

// ToDOT converts the tree to Graphviz DOT. Splits are drawn as ellipses
// labelled with orientation and ratio, leaves as boxes labelled by label
// (record handles when label is nil), and Empty placeholders as dashed
// points. Edges are labelled L and R.
func ToDOT(t *Tree, label func(RecordID) string) string {
	if label == nil {
		label = func(r RecordID) string { return "#" + strconv.Itoa(int(r)) }
	}

	var buf bytes.Buffer
	buf.WriteString("digraph bsp {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"monospace\", fontsize=12];\n")
	buf.WriteString("\n")

	t.Walk(func(id NodeID, n Node, _ int) {
		switch n.Kind {
		case KindEmpty:
			fmt.Fprintf(&buf, "  n%d [shape=point, style=dashed];\n", id)
		case KindLeaf:
			fmt.Fprintf(&buf, "  n%d [shape=box, style=\"rounded,filled\", fillcolor=white, label=%q];\n", id, label(n.Record))
		case KindSplit:
			fmt.Fprintf(&buf, "  n%d [shape=ellipse, label=%q];\n", id, fmt.Sprintf("%s %.2f", n.Split, n.Ratio))
		}
	})

	buf.WriteString("\n")
	t.Walk(func(id NodeID, n Node, _ int) {
		if n.Kind != KindSplit {
			return
		}
		fmt.Fprintf(&buf, "  n%d -> n%d [label=\"L\"];\n", id, n.Left)
		fmt.Fprintf(&buf, "  n%d -> n%d [label=\"R\"];\n", id, n.Right)
	})

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
