package tree

// Node is one vertex of a binary tree. A node exclusively owns its
// children; trees never share subtrees.
type Node struct {
	Value int32
	Left  *Node
	Right *Node

	// X is the horizontal offset from the left edge of the canvas.
	X float64
	// Y is the vertical offset from the top of the canvas.
	Y float64
}

// NewNode returns a childless node holding v.
func NewNode(v int32) *Node {
	return &Node{Value: v}
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// Height returns the number of levels in the tree rooted at n.
// The height of a nil tree is 0.
func Height(n *Node) int {
	if n == nil {
		return 0
	}
	return max(Height(n.Left), Height(n.Right)) + 1
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n *Node) int {
	if n == nil {
		return 0
	}
	return 1 + Count(n.Left) + Count(n.Right)
}

// Walk visits every node in pre-order (self, left, right), passing the
// node's complete-tree array index and its depth.
func Walk(root *Node, fn func(n *Node, index uint64, depth int)) {
	walk(root, 0, 0, fn)
}

func walk(n *Node, i uint64, d int, fn func(*Node, uint64, int)) {
	if n == nil {
		return
	}
	fn(n, i, d)
	walk(n.Left, 2*i+1, d+1, fn)
	walk(n.Right, 2*i+2, d+1, fn)
}
