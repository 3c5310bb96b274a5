// Package render draws family trees as SVG images and Graphviz
// diagrams.
//
// # Overview
//
// Two independent output paths are provided:
//
//   - A direct SVG painter that places one box per person using the
//     coordinates from [layout.ComputeXs], with connector lines between
//     parents and children and a generation-index label per layer.
//     This mirrors what an interactive canvas would draw.
//   - A Graphviz path that emits DOT source and renders it in-process,
//     for users who prefer classic node-link diagrams or want to
//     post-process the DOT with external tools.
//
// # Usage
//
// Paint a tree to SVG:
//
//	svg := render.SVG(t, render.DefaultOptions())
//	os.WriteFile("family.svg", svg, 0o644)
//
// Or go through Graphviz:
//
//	dot := render.ToDOT(t, render.DefaultOptions())
//	svg, err := render.GraphvizSVG(ctx, dot)
//
// [layout.ComputeXs]: github.com/zyxir/genealogy-manager/pkg/layout.ComputeXs
package render
