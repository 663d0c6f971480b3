package tree

import "strings"

// Build reconstructs a tree from level-order values.
//
// It returns nil when values is empty or starts with a null marker. A null
// entry consumes a slot without creating a node, and slots remaining once
// no node is waiting for children are dropped.
func Build(values []Value) *Node {
	if len(values) == 0 || values[0].Null {
		return nil
	}

	root := NewNode(values[0].Int)
	queue := []*Node{root}
	cursor := 1

	for len(queue) > 0 && cursor < len(values) {
		current := queue[0]
		queue = queue[1:]

		if v := values[cursor]; !v.Null {
			current.Left = NewNode(v.Int)
			queue = append(queue, current.Left)
		}
		cursor++

		if cursor < len(values) {
			if v := values[cursor]; !v.Null {
				current.Right = NewNode(v.Int)
				queue = append(queue, current.Right)
			}
		}
		cursor++
	}

	return root
}

// Values encodes the tree rooted at root back into level-order values.
// Trailing null markers are trimmed, so Build(Values(t)) reproduces t.
func Values(root *Node) []Value {
	if root == nil {
		return nil
	}

	out := []Value{IntValue(root.Value)}
	queue := []*Node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, child := range []*Node{n.Left, n.Right} {
			if child == nil {
				out = append(out, NullValue)
				continue
			}
			out = append(out, IntValue(child.Value))
			queue = append(queue, child)
		}
	}

	for len(out) > 0 && out[len(out)-1].Null {
		out = out[:len(out)-1]
	}
	return out
}

// Format returns the canonical text form of the tree: level-order values
// separated by single spaces, nulls written as "N".
func Format(root *Node) string {
	values := Values(root)
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, " ")
}
