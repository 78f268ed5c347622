// Package nodelink renders view trees as node-link diagrams for debugging.
//
// # Usage
//
// Convert a view document to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(doc, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be rendered
// directly via [RenderSVG] or saved and processed with external Graphviz
// tools. The layout runs top to bottom with the root view first.
//
// Hierarchy edges are solid. Sibling constraints are dashed and labeled
// with the constraint kind; chains are drawn as bold blue edges labeled
// with the chain style. Neither influences node ranking.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
