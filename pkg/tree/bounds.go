package tree

// Size is the canvas area needed to draw a laid-out tree.
type Size struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Bounds returns the smallest size that contains every node of a
// laid-out tree plus cfg.Padding on the right and bottom. A nil tree
// yields {0, 0}.
func Bounds(root *Node, cfg Config) Size {
	pad := cfg.WithDefaults().Padding

	var size Size
	var visit func(n *Node)
	visit = func(n *Node) {
		if n == nil {
			return
		}
		size.Width = max(size.Width, n.X+pad)
		size.Height = max(size.Height, n.Y+pad)
		visit(n.Left)
		visit(n.Right)
	}
	visit(root)
	return size
}
