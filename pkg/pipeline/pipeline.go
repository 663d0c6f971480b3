// Package pipeline provides the parse → layout → render pipeline for bintree.
//
// This package is shared by the CLI, the interactive terminal view and the
// HTTP API, so every entry point validates input, applies defaults and uses
// the cache in the same way.
//
// # Stages
//
//  1. Parse: tokenize the level-order input, build the tree, lay it out
//  2. Render: turn the layout into SVG, PNG, PDF, JSON, DOT or text
//
// Both stages are cache-aware. Layouts are keyed by the canonical form of
// the input (see [tree.Format]) so "1 2 N" and "1  2" share an entry;
// artifacts are keyed by the layout they were drawn from.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "1 2 3 N 4",
//	    Formats: []string{"svg"},
//	})
//	if errors.IsValidation(err) {
//	    // present errors.UserTitle(err) and errors.UserMessage(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bintree/pkg/cache"
	"github.com/matzehuels/bintree/pkg/errors"
	"github.com/matzehuels/bintree/pkg/graph"
	"github.com/matzehuels/bintree/pkg/render/sink"
	"github.com/matzehuels/bintree/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API and Terminal View
// =============================================================================

const (
	// DefaultMaxTokens caps the number of values in one input.
	DefaultMaxTokens = 1 << 16

	// DefaultMaxInputBytes caps the size of one input.
	DefaultMaxInputBytes = 1 << 20

	// DefaultStyle is the default visual style.
	DefaultStyle = graph.DefaultStyle

	// DefaultNodeSize is the default node diameter.
	DefaultNodeSize = sink.DefaultNodeSize

	// DefaultEngine is the default SVG engine.
	DefaultEngine = EngineNative
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatText = "txt"
)

// Engine constants select who draws SVG, PNG and PDF output.
const (
	EngineNative   = "native"
	EngineGraphviz = "graphviz"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatText: true,
}

// ValidEngines is the set of supported SVG engines.
var ValidEngines = map[string]bool{
	EngineNative:   true,
	EngineGraphviz: true,
}

// ContentTypes maps each output format to its MIME type.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	FormatText: "text/plain; charset=utf-8",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	Input             string   `json:"input"`
	HorizontalSpacing float64  `json:"horizontal_spacing,omitempty"`
	VerticalSpacing   float64  `json:"vertical_spacing,omitempty"`
	Padding           *float64 `json:"padding,omitempty"` // nil means the default; zero is a valid padding
	MaxHeight         int      `json:"max_height,omitempty"`
	MaxTokens         int      `json:"max_tokens,omitempty"`
	MaxInputBytes     int      `json:"max_input_bytes,omitempty"`
	Refresh           bool     `json:"refresh,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	NodeSize float64  `json:"node_size,omitempty"`
	Engine   string   `json:"engine,omitempty"`
	Title    string   `json:"title,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the laid-out tree, nil when the input described no tree.
	Tree *tree.Node

	// Size is the bounding size of Tree.
	Size tree.Size

	// Layout is the serialized form of Tree.
	Layout graph.Layout

	// Empty reports that the input described no tree. It is not an error.
	Empty bool

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Kind returns the parse outcome as a word: "empty" or "tree".
func (r *Result) Kind() string {
	if r.Empty {
		return tree.KindEmpty.String()
	}
	return tree.KindTree.String()
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	Height     int
	ParseTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json, dot, txt)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !graph.IsValidStyle(style) {
		return errors.New(errors.ErrCodeInvalidStyle,
			"invalid style: %q (must be one of: %s)", style, strings.Join(graph.ValidStyles, ", "))
	}
	return nil
}

// ValidateEngine checks that an SVG engine is valid.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid engine: %q (must be one of: native, graphviz)", engine)
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates while keeping order.
func ParseFormats(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks the input size and applies parse defaults.
func (o *Options) ValidateForParse() error {
	o.SetParseDefaults()
	return errors.ValidateInputSize(o.Input, o.MaxInputBytes)
}

// SetParseDefaults sets default values for parsing and layout.
func (o *Options) SetParseDefaults() {
	cfg := o.TreeConfig()
	o.HorizontalSpacing = cfg.HorizontalSpacing
	o.VerticalSpacing = cfg.VerticalSpacing
	o.Padding = &cfg.Padding
	o.MaxHeight = cfg.MaxHeight
	if o.MaxTokens == 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.MaxInputBytes == 0 {
		o.MaxInputBytes = DefaultMaxInputBytes
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.NodeSize <= 0 {
		o.NodeSize = DefaultNodeSize
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

// TreeConfig returns the layout constants described by the options.
func (o *Options) TreeConfig() tree.Config {
	cfg := tree.Config{
		HorizontalSpacing: o.HorizontalSpacing,
		VerticalSpacing:   o.VerticalSpacing,
		Padding:           tree.DefaultPadding,
		MaxHeight:         o.MaxHeight,
	}
	if o.Padding != nil {
		cfg.Padding = *o.Padding
	}
	return cfg.WithDefaults()
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	cfg := o.TreeConfig()
	return cache.LayoutKeyOpts{
		HorizontalSpacing: cfg.HorizontalSpacing,
		VerticalSpacing:   cfg.VerticalSpacing,
		Padding:           cfg.Padding,
		MaxHeight:         cfg.MaxHeight,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
		opts.Style = o.Style
		opts.NodeSize = o.NodeSize
		opts.Engine = o.Engine
	case FormatJSON:
		opts.Style = o.Style
	case FormatDOT:
		opts.NodeSize = o.NodeSize
	}
	return opts
}
