package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/bintree/pkg/graph"
)

// DefaultNodeSize is the diameter of a node circle in canvas units.
const DefaultNodeSize = 80.0

// palette holds the colours of one visual style.
type palette struct {
	Background string
	NodeFill   string
	LeafFill   string
	Stroke     string
	Text       string
	Edge       string
}

var palettes = map[string]palette{
	graph.StyleDark: {
		Background: "#1e1e1e",
		NodeFill:   "#2d2d30",
		LeafFill:   "#264f3a",
		Stroke:     "white",
		Text:       "white",
		Edge:       "white",
	},
	graph.StyleLight: {
		Background: "white",
		NodeFill:   "#f5f5f5",
		LeafFill:   "#e3f2e1",
		Stroke:     "#333333",
		Text:       "#111111",
		Edge:       "#333333",
	},
}

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style    string
	nodeSize float64
	title    string
}

// WithStyle selects a style by name. Unknown names fall back to the default.
func WithStyle(s string) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithNodeSize sets the node diameter. Non-positive sizes are ignored.
func WithNodeSize(d float64) SVGOption {
	return func(r *svgRenderer) {
		if d > 0 {
			r.nodeSize = d
		}
	}
}

// WithTitle adds a <title> element, shown as a tooltip by browsers.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: graph.DefaultStyle, nodeSize: DefaultNodeSize}
	for _, opt := range opts {
		opt(&r)
	}
	if _, ok := palettes[r.style]; !ok {
		r.style = graph.DefaultStyle
	}
	return r
}

// RenderSVG draws the layout: straight edges from parent to child centre,
// then one circle per node with its value centred inside. The canvas is
// exactly the layout's bounding size.
func RenderSVG(l graph.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	p := palettes[r.style]

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" class="tree %s">`+"\n",
		l.Width, l.Height, l.Width, l.Height, r.style)

	if r.title != "" {
		buf.WriteString("  <title>")
		_ = xml.EscapeText(&buf, []byte(r.title))
		buf.WriteString("</title>\n")
	}
	renderStyle(&buf, p, r.nodeSize)
	fmt.Fprintf(&buf, `  <rect class="background" width="100%%" height="100%%"/>`+"\n")

	pos := make(map[uint64]graph.Node, len(l.Nodes))
	for _, n := range l.Nodes {
		pos[n.Index] = n
	}

	buf.WriteString(`  <g class="edges">` + "\n")
	for _, e := range l.Edges {
		from, to := pos[e.From], pos[e.To]
		fmt.Fprintf(&buf, `    <line class="edge %s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
			e.Side, from.X, from.Y, to.X, to.Y)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, n := range l.Nodes {
		class := "node"
		if n.Leaf {
			class = "node leaf"
		}
		fmt.Fprintf(&buf, `    <g class="%s" id="node-%d">`+"\n", class, n.Index)
		fmt.Fprintf(&buf, `      <circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", n.X, n.Y, r.nodeSize/2)
		fmt.Fprintf(&buf, `      <text x="%.1f" y="%.1f">%d</text>`+"\n", n.X, n.Y, n.Value)
		buf.WriteString("    </g>\n")
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderStyle(buf *bytes.Buffer, p palette, nodeSize float64) {
	fontSize := nodeSize * 0.3
	buf.WriteString("  <style>\n")
	fmt.Fprintf(buf, "    .background { fill: %s; }\n", p.Background)
	fmt.Fprintf(buf, "    .edge { stroke: %s; stroke-width: 2; }\n", p.Edge)
	fmt.Fprintf(buf, "    .node circle { fill: %s; stroke: %s; stroke-width: 2; }\n", p.NodeFill, p.Stroke)
	fmt.Fprintf(buf, "    .node.leaf circle { fill: %s; }\n", p.LeafFill)
	fmt.Fprintf(buf, "    .node text { fill: %s; font-family: sans-serif; font-size: %.0fpx; text-anchor: middle; dominant-baseline: central; }\n",
		p.Text, fontSize)
	buf.WriteString("  </style>\n")
}
