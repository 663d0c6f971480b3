package pipeline

import (
	"fmt"

	"github.com/matzehuels/bintree/pkg/graph"
	"github.com/matzehuels/bintree/pkg/render/nodelink"
	"github.com/matzehuels/bintree/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
func Render(l graph.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	svgOpts := buildSVGOptions(opts)
	dotOpts := nodelink.Options{NodeSize: opts.NodeSize}
	graphviz := opts.Engine == EngineGraphviz

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch {
		case format == FormatJSON:
			exported := l
			exported.Style = opts.Style
			data, err = graph.MarshalLayout(exported)
		case format == FormatDOT:
			data = []byte(nodelink.ToDOT(l, dotOpts))
		case format == FormatText:
			data, err = sink.RenderText(l)
		case graphviz:
			data, err = renderGraphviz(l, format, dotOpts)
		case format == FormatSVG:
			data = sink.RenderSVG(l, svgOpts...)
		case format == FormatPNG:
			data, err = sink.RenderPNG(l, sink.WithPNGSVGOptions(svgOpts...))
		case format == FormatPDF:
			data, err = sink.RenderPDF(l, sink.WithPDFSVGOptions(svgOpts...))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderGraphviz draws SVG, PNG or PDF output through Graphviz.
func renderGraphviz(l graph.Layout, format string, opts nodelink.Options) ([]byte, error) {
	dot := nodelink.ToDOT(l, opts)
	switch format {
	case FormatSVG:
		return nodelink.RenderSVG(dot)
	case FormatPNG:
		return nodelink.RenderPNG(dot, 2.0)
	case FormatPDF:
		return nodelink.RenderPDF(dot)
	}
	return nil, fmt.Errorf("unsupported graphviz format: %s", format)
}

// buildSVGOptions builds native SVG rendering options.
func buildSVGOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{
		sink.WithStyle(opts.Style),
		sink.WithNodeSize(opts.NodeSize),
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	return svgOpts
}

// RenderFromLayoutData renders output from serialized layout data.
// This is useful when the layout was computed elsewhere (e.g., a saved JSON file).
func RenderFromLayoutData(layoutData []byte, opts Options) (map[string][]byte, error) {
	parsed, err := graph.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if opts.Style == "" && parsed.Style != "" {
		opts.Style = parsed.Style
	}
	return Render(parsed, opts)
}
