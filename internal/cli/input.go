package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bintree/pkg/errors"
	"github.com/matzehuels/bintree/pkg/pipeline"
)

// =============================================================================
// Input
// =============================================================================

// readInput resolves the tree input. Positional arguments are joined with
// spaces so "bintree render 1 2 3" works without quoting. Otherwise the
// input comes from file ("-" for stdin), or from stdin when it is not a
// terminal.
func readInput(args []string, file string, stdin io.Reader) (string, error) {
	if len(args) > 0 && file != "" {
		return "", fmt.Errorf("pass input as arguments or with --file, not both")
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	switch {
	case file == "-":
		return readAll(stdin)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return string(data), nil
	case !isTerminal(stdin):
		return readAll(stdin)
	}
	return "", fmt.Errorf("no input: pass values as arguments, with --file, or on stdin")
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// =============================================================================
// Output
// =============================================================================

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{stdout}, nil
	}
	if err := errors.ValidateOutputPath(path); err != nil {
		return nil, err
	}
	return os.Create(path)
}

// writeOutput writes data to path, or to stdout when path is empty.
// Binary formats are refused when stdout is a terminal.
func writeOutput(path, format string, data []byte, stdout io.Writer) error {
	if path == "" && isBinary(format) && isTerminal(stdout) {
		return fmt.Errorf("refusing to write %s output to a terminal: use -o or redirect stdout", format)
	}
	out, err := openOutput(path, stdout)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func isBinary(format string) bool {
	return format == pipeline.FormatPNG || format == pipeline.FormatPDF
}

// basePath strips a known format extension from output so multiple
// formats can be written side by side (tree.svg, tree.png).
func basePath(output string) string {
	if output == "" {
		return "tree"
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// =============================================================================
// Shared Flags
// =============================================================================

// layoutFlags holds the layout flags shared by parse, render and view.
// Flags override the config file only when set.
type layoutFlags struct {
	file      string
	hSpacing  float64
	vSpacing  float64
	padding   float64
	maxHeight int
	noCache   bool
	refresh   bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "file", "", "read input from a file (- for stdin)")
	cmd.Flags().Float64Var(&f.hSpacing, "h-spacing", 0, "horizontal distance between adjacent deepest-level slots")
	cmd.Flags().Float64Var(&f.vSpacing, "v-spacing", 0, "vertical distance between levels")
	cmd.Flags().Float64Var(&f.padding, "padding", 0, "margin around the tree")
	cmd.Flags().IntVar(&f.maxHeight, "max-height", 0, "reject trees taller than this many levels")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
}

// apply copies set flags over opts.
func (f *layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	flags := cmd.Flags()
	if flags.Changed("h-spacing") {
		opts.HorizontalSpacing = f.hSpacing
	}
	if flags.Changed("v-spacing") {
		opts.VerticalSpacing = f.vSpacing
	}
	if flags.Changed("padding") {
		p := f.padding
		opts.Padding = &p
	}
	if flags.Changed("max-height") {
		opts.MaxHeight = f.maxHeight
	}
	opts.Refresh = f.refresh
}

// =============================================================================
// Errors
// =============================================================================

// userError formats input errors as "Title: message" for the exit report.
// Other errors pass through.
func userError(err error) error {
	if err == nil || !errors.IsUserError(err) {
		return err
	}
	return fmt.Errorf("%s: %s", errors.UserTitle(err), errors.UserMessage(err))
}
