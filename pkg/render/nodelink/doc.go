// Package nodelink renders the strategy mind map as a node-link diagram.
//
// # Overview
//
// The radial layout is computed by [mindmap.Layout]; this package only draws
// it. Every node is emitted with a pinned position (pos="x,y!") and the
// graph is laid out with Graphviz's neato engine, which keeps pinned nodes
// where they are and only routes the edges.
//
// # Usage
//
//	g := mindmap.Layout("Growth", cat.Categories, mindmap.Options{Angles: cat.AngleTable()})
//	dot := nodelink.ToDOT(g, nodelink.Options{Colors: cat.Colors})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
//
// # Styling
//
// Main nodes are filled with their category's color. Sub-nodes of the focus
// category use the same color as an outline, and detail nodes are drawn as
// plain text. Tooltips carry the full attribute text so that SVG viewers can
// show it on hover.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
