// Package graph provides the serialization types for laid-out binary trees.
//
// This package defines the canonical wire format for bintree's layout data,
// used for JSON files, API responses, caching, and rendering.
//
// # Architecture
//
// The package sits at the serialization boundary between the in-memory tree
// and external formats:
//
//   - [Layout]: Serialization type (this package)
//   - pkg/tree.Node: Owned, positioned tree produced by tree.Parse
//
// Use [FromTree]/[ToTree] to convert between them.
//
// # Core Types
//
//   - [Layout]: Canvas size, layout constants and positioned nodes
//   - [Node]: One positioned node, keyed by its complete-tree index
//   - [Edge]: Parent to child link, tagged with the child side
//
// # Constants
//
// This package is the single source of truth for visual styles:
//
//	graph.StyleDark   // "dark"
//	graph.StyleLight  // "light"
//
// # Layout Serialization
//
//	layout := graph.FromTree(res.Tree(), cfg)
//	data, _ := graph.MarshalLayout(layout)    // Layout → []byte
//	parsed, _ := graph.UnmarshalLayout(data)  // []byte → Layout
//	root, _ := graph.ToTree(parsed)           // Layout → *tree.Node
//
// Node indices are written as decimal strings in JSON because indices of
// the deepest levels exceed the integer range of most JSON consumers:
//
//	{"index": "4", "value": 4, "x": 210, "y": 420, "depth": 2, "leaf": true}
//
// # Concurrency
//
// All functions are safe for concurrent use; a Layout is a plain value.
package graph
