package graph

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Visual styles for rendering.
const (
	StyleDark  = "dark"
	StyleLight = "light"
)

// DefaultStyle is the style used when none is given.
const DefaultStyle = StyleDark

// Edge sides.
const (
	SideLeft  = "left"
	SideRight = "right"
)

// ValidStyles lists every recognized style, in display order.
var ValidStyles = []string{StyleDark, StyleLight}

// IsValidStyle reports whether s names a known style.
func IsValidStyle(s string) bool {
	for _, v := range ValidStyles {
		if s == v {
			return true
		}
	}
	return false
}

// =============================================================================
// Layout - Positioned Tree
// =============================================================================

// Layout is the serialization format for a laid-out tree.
//
// Width and Height are the canvas size from tree.Bounds. The spacing and
// padding fields record the constants the coordinates were computed with,
// so a renderer can size its shapes consistently. An empty Layout (no
// nodes, zero size) represents input that described no tree.
type Layout struct {
	// Input is the canonical level-order form of the tree.
	Input string `json:"input" bson:"input"`

	// Canvas
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Style  string  `json:"style,omitempty" bson:"style,omitempty"`

	// Layout constants
	HorizontalSpacing float64 `json:"horizontal_spacing" bson:"horizontal_spacing"`
	VerticalSpacing   float64 `json:"vertical_spacing" bson:"vertical_spacing"`
	Padding           float64 `json:"padding" bson:"padding"`

	// Shape
	TreeHeight int `json:"tree_height" bson:"tree_height"`
	NodeCount  int `json:"node_count" bson:"node_count"`

	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// IsEmpty reports whether l holds no tree.
func (l *Layout) IsEmpty() bool { return len(l.Nodes) == 0 }

// Root returns the node at index 0, or nil for an empty layout.
func (l *Layout) Root() *Node {
	for i := range l.Nodes {
		if l.Nodes[i].Index == 0 {
			return &l.Nodes[i]
		}
	}
	return nil
}

// =============================================================================
// Node - Positioned Vertex
// =============================================================================

// Node is one positioned tree node.
type Node struct {
	Index uint64  `json:"index,string" bson:"index"` // Complete-tree array index
	Value int32   `json:"value" bson:"value"`
	X     float64 `json:"x" bson:"x"`
	Y     float64 `json:"y" bson:"y"`
	Depth int     `json:"depth" bson:"depth"`
	Leaf  bool    `json:"leaf,omitempty" bson:"leaf,omitempty"`
}

// =============================================================================
// Edge - Parent to Child
// =============================================================================

// Edge links a parent index to a child index.
type Edge struct {
	From uint64 `json:"from,string" bson:"from"`
	To   uint64 `json:"to,string" bson:"to"`
	Side string `json:"side" bson:"side"` // "left" or "right"
}

// ParentIndex returns the index of the parent of index i. The root has no
// parent; callers must not pass 0.
func ParentIndex(i uint64) uint64 { return (i - 1) / 2 }

// SideOf returns the side of its parent that index i hangs on.
func SideOf(i uint64) string {
	if i%2 == 1 {
		return SideLeft
	}
	return SideRight
}
