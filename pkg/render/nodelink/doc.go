// Package nodelink exports laid-out trees as Graphviz node-link diagrams.
//
// # Overview
//
// The tree layout already fixes every node position, so this package does
// not ask Graphviz to lay anything out. [ToDOT] pins each node with
// pos="x,y!" and selects the neato engine, which keeps pinned nodes in
// place and only routes the edges.
//
// # Usage
//
//	dot := nodelink.ToDOT(layout, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Options
//
//   - NodeSize: circle diameter in canvas units (default 80)
//   - Detailed: add the array index and depth to each label
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
