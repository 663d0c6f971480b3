package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bintree/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	layoutFlags
	output   string  // output file path (or base path for multiple formats)
	formats  string  // comma-separated output formats
	style    string  // visual style: "dark" or "light"
	nodeSize float64 // node diameter
	engine   string  // "native" or "graphviz"
	title    string  // SVG title element
	layout   string  // saved JSON layout to draw instead of parsing input
}

// renderCommand creates the render command for drawing trees.
// It supports SVG, PNG, PDF, JSON, DOT and text output.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [values...]",
		Short: "Draw a tree as SVG, PNG, PDF, JSON, DOT or text",
		Example: `  bintree render 1 2 3 N 4 -f txt
  bintree render 1 2 3 N 4 -o tree.svg
  bintree render --file tree.txt -f svg,png -o out/tree
  bintree render 5 3 8 --engine graphviz -f png -o tree.png
  bintree render --layout tree.json -f pdf -o tree.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.layout != "" {
				return c.runRenderLayout(cmd, &opts, cmd.OutOrStdout())
			}
			input, err := readInput(args, opts.file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			pipeOpts := c.config().PipelineOptions()
			pipeOpts.Input = input
			opts.apply(cmd, &pipeOpts)
			if err := pipeOpts.ValidateAndSetDefaults(); err != nil {
				return userError(err)
			}
			return c.runRender(cmd.Context(), pipeOpts, &opts, cmd.OutOrStdout())
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot, txt (comma-separated)")
	cmd.Flags().StringVar(&opts.style, "style", "", "visual style: dark (default), light")
	cmd.Flags().Float64Var(&opts.nodeSize, "node-size", 0, "node diameter")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "drawing engine for svg, png and pdf: native (default), graphviz")
	cmd.Flags().StringVar(&opts.title, "title", "", "title embedded in SVG output")
	cmd.Flags().StringVar(&opts.layout, "layout", "", "draw a JSON layout written by parse instead of parsing input")

	return cmd
}

// apply copies set flags over pipeOpts.
func (o *renderOpts) apply(cmd *cobra.Command, pipeOpts *pipeline.Options) {
	o.layoutFlags.apply(cmd, pipeOpts)
	if o.formats != "" {
		pipeOpts.Formats = pipeline.ParseFormats(o.formats)
	}
	if o.style != "" {
		pipeOpts.Style = strings.ToLower(o.style)
	}
	if o.nodeSize > 0 {
		pipeOpts.NodeSize = o.nodeSize
	}
	if o.engine != "" {
		pipeOpts.Engine = strings.ToLower(o.engine)
	}
	pipeOpts.Title = o.title
}

func (c *CLI) runRender(ctx context.Context, pipeOpts pipeline.Options, opts *renderOpts, stdout io.Writer) error {
	if len(pipeOpts.Formats) == 1 && opts.output == "" && isBinary(pipeOpts.Formats[0]) && isTerminal(stdout) {
		return fmt.Errorf("refusing to write %s output to a terminal: use -o or redirect stdout", pipeOpts.Formats[0])
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Parse(ctx, pipeOpts)
	if err != nil {
		return userError(err)
	}
	if result.Empty {
		c.Logger.Warn("input describes no tree, drawing an empty canvas")
	}

	prog := newProgress(c.Logger)
	spinner := c.startSpinner(ctx, pipeOpts)
	artifacts, cached, err := runner.RenderWithCacheInfo(ctx, result.Layout, pipeOpts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return userError(err)
	}
	prog.done(fmt.Sprintf("Rendered %s", strings.Join(pipeOpts.Formats, ", ")))

	paths, err := writeArtifacts(pipeOpts.Formats, artifacts, opts.output, stdout)
	if err != nil {
		return err
	}
	if len(paths) > 0 {
		reportRender(result, cached, paths)
	}
	return nil
}

// writeArtifacts writes a single format to output (stdout if empty) and
// several formats side by side under basePath(output). It returns the
// files written.
func writeArtifacts(formats []string, artifacts map[string][]byte, output string, stdout io.Writer) ([]string, error) {
	if len(formats) == 1 {
		format := formats[0]
		if err := writeOutput(output, format, artifacts[format], stdout); err != nil {
			return nil, err
		}
		if output == "" {
			return nil, nil
		}
		return []string{output}, nil
	}

	base := basePath(output)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + format
		if err := writeOutput(path, format, artifacts[format], stdout); err != nil {
			return paths, fmt.Errorf("%s: %w", format, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// startSpinner shows a spinner while slow external conversions run. It
// stays off when stderr is not a terminal or debug logs would interleave.
func (c *CLI) startSpinner(ctx context.Context, opts pipeline.Options) *Spinner {
	if !needsSpinner(opts) || !isTerminal(os.Stderr) || c.Logger.GetLevel() <= log.DebugLevel {
		return nil
	}
	s := newSpinner(ctx, os.Stderr, "Rendering "+strings.Join(opts.Formats, ", ")+"...")
	s.Start()
	return s
}

// needsSpinner reports whether rendering shells out or runs Graphviz.
func needsSpinner(opts pipeline.Options) bool {
	for _, f := range opts.Formats {
		switch f {
		case pipeline.FormatPNG, pipeline.FormatPDF:
			return true
		case pipeline.FormatSVG:
			if opts.Engine == pipeline.EngineGraphviz {
				return true
			}
		}
	}
	return false
}

func reportRender(result *pipeline.Result, cached bool, paths []string) {
	if result.Empty {
		printWarning("Input describes no tree")
	} else {
		printSuccess("Rendered tree")
		printStats(result.Stats.NodeCount, result.Stats.Height, result.Size.Width, result.Size.Height, cached)
	}
	for _, p := range paths {
		printFile(p)
	}
}

// runRenderLayout redraws a saved JSON layout, as written by parse. The
// layout's own style is kept unless --style is given.
func (c *CLI) runRenderLayout(cmd *cobra.Command, opts *renderOpts, stdout io.Writer) error {
	pipeOpts := c.config().PipelineOptions()
	opts.apply(cmd, &pipeOpts)
	if opts.style == "" {
		pipeOpts.Style = ""
	}

	data, err := os.ReadFile(opts.layout)
	if err != nil {
		return fmt.Errorf("read layout: %w", err)
	}
	artifacts, err := pipeline.RenderFromLayoutData(data, pipeOpts)
	if err != nil {
		return userError(err)
	}

	paths, err := writeArtifacts(pipeOpts.Formats, artifacts, opts.output, stdout)
	if err != nil {
		return err
	}
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
