package tree

import (
	"fmt"
	"math/bits"

	"github.com/matzehuels/bintree/pkg/errors"
)

// Layout defaults, in canvas units (pixels for SVG output).
const (
	DefaultHorizontalSpacing = 140.0
	DefaultVerticalSpacing   = 140.0
	DefaultPadding           = 140.0
)

// MaxHeight is the tallest tree that can be laid out. Array indices of the
// deepest level must fit in a uint64.
const MaxHeight = 64

// TitleTooDeep is the presentation title of TREE_TOO_DEEP errors.
const TitleTooDeep = "Tree Too Deep"

// Config holds the layout constants.
type Config struct {
	// HorizontalSpacing is the distance between adjacent slots on the
	// deepest level.
	HorizontalSpacing float64 `json:"horizontal_spacing" toml:"horizontal_spacing" yaml:"horizontal_spacing"`

	// VerticalSpacing is the distance between consecutive levels.
	VerticalSpacing float64 `json:"vertical_spacing" toml:"vertical_spacing" yaml:"vertical_spacing"`

	// Padding is the margin around the laid-out tree.
	Padding float64 `json:"padding" toml:"padding" yaml:"padding"`

	// MaxHeight caps the number of levels. Values outside (0, MaxHeight]
	// mean MaxHeight.
	MaxHeight int `json:"max_height,omitempty" toml:"max_height" yaml:"max_height"`
}

// DefaultConfig returns the reference layout constants: equal spacing in
// both directions and padding equal to the spacing.
func DefaultConfig() Config {
	return Config{
		HorizontalSpacing: DefaultHorizontalSpacing,
		VerticalSpacing:   DefaultVerticalSpacing,
		Padding:           DefaultPadding,
		MaxHeight:         MaxHeight,
	}
}

// WithDefaults returns c with unusable values replaced by the defaults.
// Zero padding is kept.
func (c Config) WithDefaults() Config {
	if c.HorizontalSpacing <= 0 {
		c.HorizontalSpacing = DefaultHorizontalSpacing
	}
	if c.VerticalSpacing <= 0 {
		c.VerticalSpacing = DefaultVerticalSpacing
	}
	if c.Padding < 0 {
		c.Padding = DefaultPadding
	}
	if c.MaxHeight <= 0 || c.MaxHeight > MaxHeight {
		c.MaxHeight = MaxHeight
	}
	return c
}

// Layout assigns normalized coordinates to every node of root.
//
// It fails with TREE_TOO_DEEP when the tree has more levels than
// cfg.MaxHeight; the tree is left untouched in that case.
func Layout(root *Node, cfg Config) error {
	if root == nil {
		return nil
	}
	cfg = cfg.WithDefaults()

	h := Height(root)
	if h > cfg.MaxHeight {
		msg := fmt.Sprintf("Trees with more than %d levels are not supported", cfg.MaxHeight)
		return errors.Validation(errors.ErrCodeTreeTooDeep, TitleTooDeep, msg).
			WithCause(fmt.Errorf("height %d", h))
	}

	p := newLayoutPass(h)
	p.assign(root, 0)
	normalize(root, cfg)
	return nil
}

// depth returns the level of array index i: the number of times i+1 can be
// shifted right before reaching zero, minus one.
func depth(i uint64) int {
	return bits.Len64(i+1) - 1
}

// levelOffset is the position of index i among the slots of level d.
func levelOffset(i uint64, d int) uint64 {
	return i - (uint64(1)<<d - 1)
}

// layoutPass holds the memo for one layout run. It must not outlive it.
type layoutPass struct {
	deepest int
	memo    map[uint64]float64
}

func newLayoutPass(height int) *layoutPass {
	return &layoutPass{
		deepest: height - 1,
		memo:    make(map[uint64]float64),
	}
}

// assign writes raw coordinates: x from rawX, y equal to the depth.
func (p *layoutPass) assign(n *Node, i uint64) {
	if n == nil {
		return
	}
	n.X = p.rawX(n, i)
	n.Y = float64(depth(i))
	p.assign(n.Left, 2*i+1)
	p.assign(n.Right, 2*i+2)
}

// rawX returns the raw x of real node n at index i. Deepest-level nodes
// take their slot number; others take the midpoint of their child slots.
func (p *layoutPass) rawX(n *Node, i uint64) float64 {
	if x, ok := p.memo[i]; ok {
		return x
	}

	var x float64
	if d := depth(i); d == p.deepest {
		x = float64(levelOffset(i, d))
	} else {
		x = (p.slotX(n.Left, 2*i+1) + p.slotX(n.Right, 2*i+2)) / 2
	}

	p.memo[i] = x
	return x
}

// slotX returns the raw x of child slot i, which may hold no node.
func (p *layoutPass) slotX(child *Node, i uint64) float64 {
	if child != nil {
		return p.rawX(child, i)
	}
	return p.emptySlotX(i)
}

// emptySlotX evaluates the midpoint rule for an index with no node below
// it. Over a complete subtree the recursive midpoints collapse to the centre
// of the deepest-level span the index covers.
func (p *layoutPass) emptySlotX(i uint64) float64 {
	d := depth(i)
	if d == p.deepest {
		return float64(levelOffset(i, d))
	}
	span := uint64(1) << (p.deepest - d)
	first := (i+1)*span - 1
	return float64(levelOffset(first, p.deepest)) + float64(span-1)/2
}

// leftmost returns the node with the smallest x, searching post-order
// (left, right, self). Ties keep the first node met in that order.
func leftmost(n *Node) *Node {
	if n == nil {
		return nil
	}
	best := leftmost(n.Left)
	if r := leftmost(n.Right); r != nil && (best == nil || r.X < best.X) {
		best = r
	}
	if best == nil || n.X < best.X {
		best = n
	}
	return best
}

// normalize shifts the tree so the leftmost node sits at x = Padding and
// scales both axes into canvas units.
func normalize(root *Node, cfg Config) {
	left := leftmost(root)
	if left == nil {
		return
	}
	offset := left.X

	var visit func(n *Node)
	visit = func(n *Node) {
		if n == nil {
			return
		}
		n.X = (n.X-offset)*cfg.HorizontalSpacing + cfg.Padding
		n.Y = n.Y*cfg.VerticalSpacing + cfg.Padding
		visit(n.Left)
		visit(n.Right)
	}
	visit(root)
}
