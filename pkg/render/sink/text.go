package sink

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/bintree/pkg/graph"
)

// DefaultMaxTextWidth caps the width of text renderings, in columns.
const DefaultMaxTextWidth = 4096

// ErrTooWide is returned when a text rendering would exceed its width cap.
type ErrTooWide struct {
	Columns, Max int
}

func (e *ErrTooWide) Error() string {
	return fmt.Sprintf("tree needs %d columns, text output is limited to %d", e.Columns, e.Max)
}

// TextOption configures RenderText.
type TextOption func(*textRenderer)

type textRenderer struct {
	maxWidth int
}

// WithMaxWidth sets the width cap in columns.
func WithMaxWidth(n int) TextOption {
	return func(r *textRenderer) {
		if n > 0 {
			r.maxWidth = n
		}
	}
}

// RenderText draws the layout on a character grid for terminals. Each
// level takes one row of values and is followed by one row of '/' and '\'
// connectors. Horizontal positions keep the layout's proportions with one
// deepest-level slot per two label widths.
func RenderText(l graph.Layout, opts ...TextOption) ([]byte, error) {
	r := textRenderer{maxWidth: DefaultMaxTextWidth}
	for _, opt := range opts {
		opt(&r)
	}
	if len(l.Nodes) == 0 {
		return nil, nil
	}

	labels := make(map[uint64]string, len(l.Nodes))
	labelWidth := 1
	maxDepth := 0
	for _, n := range l.Nodes {
		s := strconv.FormatInt(int64(n.Value), 10)
		labels[n.Index] = s
		labelWidth = max(labelWidth, len(s))
		maxDepth = max(maxDepth, n.Depth)
	}

	spacing := l.HorizontalSpacing
	if spacing <= 0 {
		spacing = 1
	}
	unit := float64(2 * (labelWidth + 1))

	// Column math stays in float64 until the cap is checked; deep trees
	// reach columns beyond the int range.
	var widest float64
	for _, n := range l.Nodes {
		c := math.Round((n.X-l.Padding)/spacing*unit) + float64(labelWidth/2)
		widest = max(widest, c+float64(labelWidth+1))
	}
	if widest > float64(r.maxWidth) {
		cols := math.MaxInt
		if widest < float64(math.MaxInt) {
			cols = int(widest)
		}
		return nil, &ErrTooWide{Columns: cols, Max: r.maxWidth}
	}

	cols := make(map[uint64]int, len(l.Nodes))
	width := 0
	for _, n := range l.Nodes {
		c := int(math.Round((n.X-l.Padding)/spacing*unit)) + labelWidth/2
		cols[n.Index] = c
		width = max(width, c+labelWidth+1)
	}

	grid := make([][]byte, 2*maxDepth+1)
	for i := range grid {
		grid[i] = bytes.Repeat([]byte{' '}, width)
	}

	for _, n := range l.Nodes {
		s := labels[n.Index]
		start := cols[n.Index] - len(s)/2
		copy(grid[2*n.Depth][start:], s)
	}
	depthOf := make(map[uint64]int, len(l.Nodes))
	for _, n := range l.Nodes {
		depthOf[n.Index] = n.Depth
	}
	for _, e := range l.Edges {
		c := (cols[e.From] + cols[e.To]) / 2
		ch := byte('/')
		if e.Side == graph.SideRight {
			ch = '\\'
		}
		grid[2*depthOf[e.From]+1][c] = ch
	}

	var buf bytes.Buffer
	for _, row := range grid {
		buf.Write(bytes.TrimRight(row, " "))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
