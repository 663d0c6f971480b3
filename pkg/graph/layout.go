package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteLayout(l, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteLayout writes a Layout as JSON to an io.Writer.
func WriteLayout(l Layout, w io.Writer) error {
	if l.Nodes == nil {
		l.Nodes = []Node{}
	}
	if l.Edges == nil {
		l.Edges = []Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	return nil
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that the node and edge lists describe a single binary tree.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// ReadLayout decodes a JSON layout from an io.Reader.
func ReadLayout(r io.Reader) (Layout, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout: %w", err)
	}
	return UnmarshalLayout(data)
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}

// Validate checks the structural consistency of l: unique indices, a root
// at index 0, a parent for every other node, an edge for every parent link,
// and a NodeCount matching the node list.
func (l *Layout) Validate() error {
	if l.NodeCount != len(l.Nodes) {
		return fmt.Errorf("node_count %d does not match %d nodes", l.NodeCount, len(l.Nodes))
	}
	if len(l.Nodes) == 0 {
		if len(l.Edges) != 0 {
			return fmt.Errorf("empty layout must not contain edges")
		}
		return nil
	}

	seen := make(map[uint64]bool, len(l.Nodes))
	for _, n := range l.Nodes {
		if seen[n.Index] {
			return fmt.Errorf("duplicate node index %d", n.Index)
		}
		seen[n.Index] = true
	}
	if !seen[0] {
		return fmt.Errorf("layout has no root node")
	}
	for i := range seen {
		if i != 0 && !seen[ParentIndex(i)] {
			return fmt.Errorf("node %d has no parent", i)
		}
	}

	if len(l.Edges) != len(l.Nodes)-1 {
		return fmt.Errorf("expected %d edges, got %d", len(l.Nodes)-1, len(l.Edges))
	}
	for _, e := range l.Edges {
		if e.To == 0 || !seen[e.To] || ParentIndex(e.To) != e.From {
			return fmt.Errorf("edge %d→%d is not a parent link", e.From, e.To)
		}
		if e.Side != SideOf(e.To) {
			return fmt.Errorf("edge %d→%d has side %q", e.From, e.To, e.Side)
		}
	}
	return nil
}
