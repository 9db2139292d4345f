package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/acrostic/pkg/pipeline"
)

// latticeCommand creates the lattice command for inspecting the search.
func (c *CLI) latticeCommand() *cobra.Command {
	var (
		lf     layoutFlags
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "lattice <band-name> [lyrics-file|-]",
		Short: "Write the layout search lattice as DOT, SVG or JSON",
		Long: `Write the search lattice for the first feasible cap.

Nodes are (letter, word) states; edges are the candidate lines between them.
The edges of the chosen layout are drawn bold. The format follows the
extension of --output (.svg, .dot, .json) unless --format is given, and
defaults to DOT on stdout.`,
		Example: `  acrostic lattice abba lyrics.txt -o lattice.svg
  acrostic lattice abba lyrics.txt | dot -Tpng > lattice.png`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = latticeFormat(output)
			}
			if err := pipeline.ValidateLatticeFormat(format); err != nil {
				return err
			}

			opts, err := lf.options(c.config(), args[0])
			if err != nil {
				return err
			}
			text, err := readLyrics(cmd.InOrStdin(), lyricsPath(args))
			if err != nil {
				return err
			}
			opts.Text = text

			ctx := cmd.Context()
			runner := pipeline.NewRunner(nil, nil, c.Logger)

			spinner := newSpinnerWithContext(ctx, "Building lattice...")
			spinner.Start()
			data, err := runner.Lattice(ctx, opts, format)
			spinner.Stop()
			if err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write output %s: %w", output, err)
			}
			printSuccess("Lattice written")
			printFile(output)
			if format == pipeline.FormatDOT {
				printNewline()
				printNextStep("Render", "dot -Tsvg "+output)
			}
			return nil
		},
	}

	lf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: dot, svg, json")

	return cmd
}

// latticeFormat picks the output format from a file extension.
func latticeFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return pipeline.FormatSVG
	case ".json":
		return pipeline.FormatJSON
	default:
		return pipeline.FormatDOT
	}
}
