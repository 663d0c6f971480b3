// Package render provides output rendering for laid-out binary trees.
//
// # Overview
//
// This package turns a [graph.Layout] into visual outputs. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Direct renderers (in [sink] subpackage): SVG, text, PNG, PDF
//   - Graphviz export (in [nodelink] subpackage): DOT with pinned positions
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both sinks use them.
//
//	svg := sink.RenderSVG(layout, sink.WithStyle(graph.StyleLight))
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Node-Link Export
//
// The [nodelink] subpackage writes the same coordinates as Graphviz DOT,
// so the tree can be post-processed with Graphviz tools:
//
//	dot := nodelink.ToDOT(layout, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// [graph.Layout]: github.com/matzehuels/bintree/pkg/graph.Layout
// [sink]: github.com/matzehuels/bintree/pkg/render/sink
// [nodelink]: github.com/matzehuels/bintree/pkg/render/nodelink
package render
