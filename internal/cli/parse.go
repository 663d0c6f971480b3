package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bintree/pkg/graph"
	"github.com/matzehuels/bintree/pkg/pipeline"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	layoutFlags
	output string // output file path (stdout if empty)
}

// parseCommand creates the parse command. It validates the input, lays the
// tree out and writes the JSON layout.
func (c *CLI) parseCommand() *cobra.Command {
	var opts parseOpts

	cmd := &cobra.Command{
		Use:   "parse [values...]",
		Short: "Parse level-order input and write the JSON layout",
		Long: `Parse validates a level-order list of integers, where N or n marks
missing children, and writes the laid-out tree as JSON.`,
		Example: `  bintree parse 1 2 3 N 4
  bintree parse --file tree.txt -o tree.json
  echo "5 3 8" | bintree parse`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args, opts.file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			pipeOpts := c.config().PipelineOptions()
			pipeOpts.Input = input
			opts.apply(cmd, &pipeOpts)
			return c.runParse(cmd.Context(), pipeOpts, &opts, cmd.OutOrStdout())
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func (c *CLI) runParse(ctx context.Context, pipeOpts pipeline.Options, opts *parseOpts, stdout io.Writer) error {
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Parse(ctx, pipeOpts)
	if err != nil {
		return userError(err)
	}

	out, err := openOutput(opts.output, stdout)
	if err != nil {
		return err
	}
	if err := graph.WriteLayout(result.Layout, out); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if opts.output == "" {
		return nil
	}
	if result.Empty {
		printInfo("Input describes no tree")
	} else {
		printSuccess("Parsed tree")
		printStats(result.Stats.NodeCount, result.Stats.Height, result.Size.Width, result.Size.Height, result.CacheInfo.LayoutHit)
	}
	printFile(opts.output)
	if opts.file != "" && opts.file != "-" {
		printNextStep("Draw it", "bintree render --file "+opts.file+" -f svg")
	}
	return nil
}
