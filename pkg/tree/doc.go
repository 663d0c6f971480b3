// Package tree parses level-order binary tree input and lays the tree out
// for drawing.
//
// # Input Format
//
// Input is a whitespace-separated list of tokens in level order. Each token
// is either a 32-bit signed integer (`-?[0-9]+`) or a case-insensitive null
// marker `N`:
//
//	1 2 3 N 4
//
// describes
//
//	    1
//	   / \
//	  2   3
//	   \
//	    4
//
// A null marker consumes a slot but reserves no slots for children of its
// own. Slots left over after the last node has received its children are
// ignored.
//
// # Pipeline
//
// [Parse] chains the four stages and returns a three-way [Result]:
//
//  1. [Tokenize]: text to []Value, or a validation error
//  2. [Build]: []Value to an owned *Node tree (nil when empty)
//  3. [Layout]: raw index-based coordinates, then normalization
//  4. [Bounds]: canvas size needed to draw the tree
//
// # Layout
//
// Every node is indexed as in a complete binary tree stored in an array
// (root 0, children 2i+1 and 2i+2). Nodes on the deepest level sit at
// consecutive integer x positions; every other node sits at the midpoint of
// its two child slots. Coordinates are then shifted so the leftmost node is
// at x = Padding and scaled by the configured spacing.
//
// Indices are unsigned 64-bit integers, so trees are limited to [MaxHeight]
// levels.
//
// # Concurrency
//
// All functions are pure apart from writing coordinates into the tree they
// are given. Distinct trees may be processed concurrently.
package tree
