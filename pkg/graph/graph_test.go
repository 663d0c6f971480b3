package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/bintree/pkg/tree"
)

func parsed(t *testing.T, input string) *tree.Node {
	t.Helper()
	res := tree.Parse(input, tree.DefaultConfig())
	if res.Failed() {
		t.Fatalf("Parse(%q): %v", input, res.Err())
	}
	return res.Tree()
}

func TestFromTree(t *testing.T) {
	root := parsed(t, "1 2 3 N 4")
	l := FromTree(root, tree.DefaultConfig())

	if l.Input != "1 2 3 N 4" {
		t.Errorf("Input = %q", l.Input)
	}
	if l.Width != 560 || l.Height != 560 {
		t.Errorf("size = %vx%v, want 560x560", l.Width, l.Height)
	}
	if l.TreeHeight != 3 || l.NodeCount != 4 {
		t.Errorf("TreeHeight = %d, NodeCount = %d", l.TreeHeight, l.NodeCount)
	}

	wantNodes := []Node{
		{Index: 0, Value: 1, X: 280, Y: 140, Depth: 0},
		{Index: 1, Value: 2, X: 140, Y: 280, Depth: 1},
		{Index: 4, Value: 4, X: 210, Y: 420, Depth: 2, Leaf: true},
		{Index: 2, Value: 3, X: 420, Y: 280, Depth: 1, Leaf: true},
	}
	if diff := cmp.Diff(wantNodes, l.Nodes); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}

	wantEdges := []Edge{
		{From: 0, To: 1, Side: SideLeft},
		{From: 1, To: 4, Side: SideRight},
		{From: 0, To: 2, Side: SideRight},
	}
	if diff := cmp.Diff(wantEdges, l.Edges); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
	if err := l.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestFromTreeEmpty(t *testing.T) {
	l := FromTree(nil, tree.DefaultConfig())
	if !l.IsEmpty() || l.Root() != nil {
		t.Errorf("empty layout has nodes: %+v", l.Nodes)
	}
	if l.Width != 0 || l.Height != 0 {
		t.Errorf("empty layout size = %vx%v", l.Width, l.Height)
	}
	if l.Padding != tree.DefaultPadding {
		t.Errorf("Padding = %v, want %v", l.Padding, tree.DefaultPadding)
	}
	if err := l.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"nodes": []`)) {
		t.Errorf("empty layout JSON missing empty node list:\n%s", data)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, input := range []string{"5", "1 2 3 N 4", "1 N 2 N 3 N 4", "8 4 12 2 6 10 14 1 3 5 7 9 11 13 15"} {
		t.Run(input, func(t *testing.T) {
			root := parsed(t, input)
			l := FromTree(root, tree.DefaultConfig())

			data, err := MarshalLayout(l)
			if err != nil {
				t.Fatalf("MarshalLayout: %v", err)
			}
			back, err := UnmarshalLayout(data)
			if err != nil {
				t.Fatalf("UnmarshalLayout: %v", err)
			}
			if diff := cmp.Diff(l, back); diff != "" {
				t.Errorf("layout mismatch (-want +got):\n%s", diff)
			}

			rebuilt, err := ToTree(back)
			if err != nil {
				t.Fatalf("ToTree: %v", err)
			}
			if diff := cmp.Diff(root, rebuilt); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIndexEncodedAsString(t *testing.T) {
	input := "1" + strings.Repeat(" N 1", tree.MaxHeight-1)
	l := FromTree(parsed(t, input), tree.DefaultConfig())

	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"index": "18446744073709551614"`)) {
		t.Error("deepest index not encoded as a decimal string")
	}

	back, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	if got := back.Nodes[len(back.Nodes)-1].Index; got != 1<<64-2 {
		t.Errorf("deepest index = %d", got)
	}
}

func TestValidate(t *testing.T) {
	valid := FromTree(parsed(t, "1 2 3"), tree.DefaultConfig())

	tests := []struct {
		name   string
		mutate func(l *Layout)
		errSub string
	}{
		{"count mismatch", func(l *Layout) { l.NodeCount = 7 }, "node_count"},
		{"duplicate", func(l *Layout) { l.Nodes[2].Index = 1 }, "duplicate"},
		{"no root", func(l *Layout) { l.Nodes[0].Index = 5 }, "no root"},
		{"orphan", func(l *Layout) { l.Nodes[2].Index = 6 }, "no parent"},
		{"missing edge", func(l *Layout) { l.Edges = l.Edges[:1] }, "expected 2 edges"},
		{"wrong parent", func(l *Layout) { l.Edges[0].From = 2 }, "not a parent link"},
		{"wrong side", func(l *Layout) { l.Edges[0].Side = SideRight }, "side"},
		{"edges without nodes", func(l *Layout) { l.Nodes, l.NodeCount = nil, 0 }, "must not contain edges"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := valid
			l.Nodes = append([]Node(nil), valid.Nodes...)
			l.Edges = append([]Edge(nil), valid.Edges...)
			tt.mutate(&l)

			err := l.Validate()
			if err == nil {
				t.Fatal("Validate succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.errSub) {
				t.Errorf("error %q does not contain %q", err, tt.errSub)
			}
		})
	}
}

func TestToTreeErrors(t *testing.T) {
	if root, err := ToTree(Layout{}); root != nil || err != nil {
		t.Errorf("ToTree(empty) = %v, %v", root, err)
	}
	if _, err := ToTree(Layout{Nodes: []Node{{Index: 1}}}); err == nil {
		t.Error("ToTree accepted a layout without a root")
	}
	if _, err := ToTree(Layout{Nodes: []Node{{Index: 0}, {Index: 0}}}); err == nil {
		t.Error("ToTree accepted duplicate indices")
	}
}

func TestLayoutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	l := FromTree(parsed(t, "1 2 3 N 4"), tree.DefaultConfig())
	l.Style = StyleLight

	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if diff := cmp.Diff(l, got); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}

	if _, err := ReadLayoutFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ReadLayoutFile succeeded on a missing file")
	}

	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadLayoutFile(path); err == nil {
		t.Error("ReadLayoutFile accepted malformed JSON")
	}
}

func TestStyles(t *testing.T) {
	for _, s := range []string{StyleDark, StyleLight} {
		if !IsValidStyle(s) {
			t.Errorf("IsValidStyle(%q) = false", s)
		}
	}
	if IsValidStyle("neon") {
		t.Error("IsValidStyle(neon) = true")
	}
}
