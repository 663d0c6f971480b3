package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/bintree/pkg/errors"
	"github.com/matzehuels/bintree/pkg/tree"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"txt", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "txt"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"dark", false},
		{"light", false},
		{"handdrawn", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestValidateEngine(t *testing.T) {
	for _, engine := range []string{EngineNative, EngineGraphviz} {
		if err := ValidateEngine(engine); err != nil {
			t.Errorf("ValidateEngine(%q) = %v", engine, err)
		}
	}
	if err := ValidateEngine("dot"); err == nil {
		t.Error("ValidateEngine(dot) should fail")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"svg", []string{"svg"}},
		{"svg, PNG ,,svg", []string{"svg", "png"}},
		{" txt,json ", []string{"txt", "json"}},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, ParseFormats(tt.in)); diff != "" {
			t.Errorf("ParseFormats(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}

	if diff := cmp.Diff([]string{FormatSVG}, opts.Formats); diff != "" {
		t.Errorf("Formats mismatch (-want +got):\n%s", diff)
	}
	if opts.Style != DefaultStyle || opts.NodeSize != DefaultNodeSize || opts.Engine != DefaultEngine {
		t.Errorf("render defaults = %q %v %q", opts.Style, opts.NodeSize, opts.Engine)
	}
	if opts.MaxTokens != DefaultMaxTokens || opts.MaxInputBytes != DefaultMaxInputBytes {
		t.Errorf("limits = %d %d", opts.MaxTokens, opts.MaxInputBytes)
	}
	if opts.Logger == nil {
		t.Error("Logger not set")
	}
	if diff := cmp.Diff(tree.DefaultConfig(), opts.TreeConfig()); diff != "" {
		t.Errorf("TreeConfig mismatch (-want +got):\n%s", diff)
	}

	// Idempotent
	before := opts.Formats
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if &before[0] != &opts.Formats[0] {
		t.Error("second call changed options")
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"style", Options{Style: "neon"}, errors.ErrCodeInvalidStyle},
		{"engine", Options{Engine: "cairo"}, errors.ErrCodeInvalidInput},
		{"input size", Options{Input: "1 2 3", MaxInputBytes: 2}, errors.ErrCodeInputTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestTreeConfigPadding(t *testing.T) {
	zero := 0.0
	negative := -5.0

	tests := []struct {
		name    string
		padding *float64
		want    float64
	}{
		{"unset", nil, tree.DefaultPadding},
		{"zero kept", &zero, 0},
		{"negative", &negative, tree.DefaultPadding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Padding: tt.padding}
			if got := opts.TreeConfig().Padding; got != tt.want {
				t.Errorf("Padding = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Style: "light", NodeSize: 60, Engine: EngineGraphviz}

	if got := opts.ArtifactKeyOpts(FormatText); got.Style != "" || got.NodeSize != 0 || got.Engine != "" {
		t.Errorf("text key opts carry render options: %+v", got)
	}
	if got := opts.ArtifactKeyOpts(FormatSVG); got.Style != "light" || got.NodeSize != 60 || got.Engine != EngineGraphviz {
		t.Errorf("svg key opts = %+v", got)
	}
	if got := opts.ArtifactKeyOpts(FormatDOT); got.NodeSize != 60 || got.Style != "" {
		t.Errorf("dot key opts = %+v", got)
	}
}
