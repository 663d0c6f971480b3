// Package sink provides output format renderers for laid-out trees.
//
// # Overview
//
// A "sink" transforms a [graph.Layout] into a final output format:
//
//   - SVG: circles and straight edges on a canvas of the layout's size
//   - Text: a character grid for terminals
//   - PDF: Print-ready output (requires rsvg-convert)
//   - PNG: Raster image output (requires rsvg-convert)
//
// # SVG Output
//
//	svg := sink.RenderSVG(layout,
//	    sink.WithStyle(graph.StyleLight),
//	    sink.WithNodeSize(60),
//	)
//
// Leaves carry the extra class "leaf" so stylesheets can tell them apart.
//
// # Text Output
//
// [RenderText] keeps horizontal proportions, so very wide trees are
// refused with [ErrTooWide] rather than wrapped.
//
// [graph.Layout]: github.com/matzehuels/bintree/pkg/graph.Layout
package sink
