package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/zyxir/genealogy-manager/pkg/tree"
)

// ToDOT converts a tree to Graphviz DOT format for node-link
// visualization. Nodes of one layer are pinned to the same rank so the
// diagram preserves the generation structure, and invisible ordering
// edges keep each layer in its left-to-right order.
//
// The resulting DOT string can be rendered with [GraphvizSVG] or
// [GraphvizPNG], or saved for external Graphviz tooling.
func ToDOT(t *tree.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph family {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n\n")

	for _, id := range t.IDs() {
		fmt.Fprintf(&buf, "  n%d [label=%q];\n", id, dotLabel(t.Card(id), opts))
	}

	buf.WriteString("\n")
	for y := 0; y < t.LayerCount(); y++ {
		layer := t.Layer(y)
		buf.WriteString("  { rank=same;")
		for _, id := range layer {
			fmt.Fprintf(&buf, " n%d;", id)
		}
		buf.WriteString(" }\n")
		for x := 1; x < len(layer); x++ {
			fmt.Fprintf(&buf, "  n%d -> n%d [style=invis];\n", layer[x-1], layer[x])
		}
	}

	buf.WriteString("\n")
	for _, id := range t.IDs() {
		for _, c := range t.ChildIDs(id) {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", id, c)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(c tree.Card, opts Options) string {
	if years := yearSpan(c); opts.ShowYears && years != "" {
		return c.Name + "\n" + years
	}
	return c.Name
}

// GraphvizSVG renders a DOT graph to SVG using in-process Graphviz.
func GraphvizSVG(ctx context.Context, dot string) ([]byte, error) {
	return graphvizRender(ctx, dot, graphviz.SVG)
}

// GraphvizPNG renders a DOT graph to PNG using in-process Graphviz.
func GraphvizPNG(ctx context.Context, dot string) ([]byte, error) {
	return graphvizRender(ctx, dot, graphviz.PNG)
}

func graphvizRender(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
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
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
