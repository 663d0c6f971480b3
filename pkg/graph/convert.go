package graph

import (
	"fmt"
	"slices"

	"github.com/matzehuels/bintree/pkg/tree"
)

// =============================================================================
// Tree ↔ Layout Conversion
// =============================================================================

// FromTree converts a laid-out tree to its serialization format. Nodes and
// edges are listed in pre-order. A nil root yields an empty Layout that
// still records the layout constants.
func FromTree(root *tree.Node, cfg tree.Config) Layout {
	cfg = cfg.WithDefaults()
	size := tree.Bounds(root, cfg)

	out := Layout{
		Input:             tree.Format(root),
		Width:             size.Width,
		Height:            size.Height,
		HorizontalSpacing: cfg.HorizontalSpacing,
		VerticalSpacing:   cfg.VerticalSpacing,
		Padding:           cfg.Padding,
		TreeHeight:        tree.Height(root),
		Nodes:             []Node{},
		Edges:             []Edge{},
	}

	tree.Walk(root, func(n *tree.Node, i uint64, d int) {
		out.Nodes = append(out.Nodes, Node{
			Index: i,
			Value: n.Value,
			X:     n.X,
			Y:     n.Y,
			Depth: d,
			Leaf:  n.IsLeaf(),
		})
		if i != 0 {
			out.Edges = append(out.Edges, Edge{From: ParentIndex(i), To: i, Side: SideOf(i)})
		}
	})
	out.NodeCount = len(out.Nodes)
	return out
}

// ToTree rebuilds the owned tree described by l, coordinates included.
// Returns nil for an empty layout and an error when l is not a single
// binary tree.
func ToTree(l Layout) (*tree.Node, error) {
	if len(l.Nodes) == 0 {
		return nil, nil
	}

	nodes := slices.Clone(l.Nodes)
	slices.SortFunc(nodes, func(a, b Node) int {
		switch {
		case a.Index < b.Index:
			return -1
		case a.Index > b.Index:
			return 1
		}
		return 0
	})

	byIndex := make(map[uint64]*tree.Node, len(nodes))
	for _, n := range nodes {
		if _, dup := byIndex[n.Index]; dup {
			return nil, fmt.Errorf("duplicate node index %d", n.Index)
		}
		tn := &tree.Node{Value: n.Value, X: n.X, Y: n.Y}
		byIndex[n.Index] = tn
		if n.Index == 0 {
			continue
		}

		// Parents sort before their children.
		parent, ok := byIndex[ParentIndex(n.Index)]
		if !ok {
			return nil, fmt.Errorf("node %d has no parent", n.Index)
		}
		if SideOf(n.Index) == SideLeft {
			parent.Left = tn
		} else {
			parent.Right = tn
		}
	}

	root, ok := byIndex[0]
	if !ok {
		return nil, fmt.Errorf("layout has no root node")
	}
	return root, nil
}
