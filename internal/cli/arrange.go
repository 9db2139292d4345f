package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/acrostic/pkg/acrostic"
	"github.com/matzehuels/acrostic/pkg/clean"
	errs "github.com/matzehuels/acrostic/pkg/errors"
	"github.com/matzehuels/acrostic/pkg/pipeline"
)

// arrangeCommand creates the arrange command.
func (c *CLI) arrangeCommand() *cobra.Command {
	var (
		lf      layoutFlags
		output  string
		asJSON  bool
		check   bool
		noCache bool
		refresh bool
		watch   bool
	)

	cmd := &cobra.Command{
		Use:   "arrange <band-name> [lyrics-file|-]",
		Short: "Arrange lyrics so the band name reads down one column",
		Long: `Arrange lyrics so the letters of a band name line up in one column.

Lyrics are read from the given file, or from stdin when the file is omitted
or "-". The layout is written to stdout unless --output is set. When no
layout exists the output is the CANNOT_ASSEMBLE sentinel and the command
exits with status 1.

Results are cached locally for faster subsequent runs. With --watch the
lyrics file is re-arranged every time it changes.`,
		Example: `  acrostic arrange "the beatles" lyrics.txt
  cat lyrics.txt | acrostic arrange abba --max 30
  acrostic arrange tool lyrics.txt --json --check -o layout.json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := lf.options(c.config(), args[0])
			if err != nil {
				return err
			}
			opts.Refresh = refresh

			run := arrangeRun{
				source: lyricsPath(args),
				output: output,
				format: pipeline.FormatText,
				check:  check,
				stdin:  cmd.InOrStdin(),
				stdout: cmd.OutOrStdout(),
			}
			if asJSON {
				run.format = pipeline.FormatJSON
			}
			return c.runArrange(cmd.Context(), run, opts, noCache, watch)
		},
	}

	lf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "write the layout as JSON")
	cmd.Flags().BoolVar(&check, "check", false, "verify the layout before writing it")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached layout exists")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-arrange whenever the lyrics file changes")

	return cmd
}

// arrangeRun describes where one arrange invocation reads and writes.
type arrangeRun struct {
	source string // lyrics file, or "-" for stdin
	output string // destination file, empty for stdout
	format string
	check  bool
	stdin  io.Reader
	stdout io.Writer
}

// failureOutput is the JSON written in place of a layout that cannot be
// assembled.
type failureOutput struct {
	Code     errs.Code `json:"code"`
	Error    string    `json:"error"`
	Sentinel string    `json:"sentinel"`
}

// runArrange arranges once, or keeps arranging on every change to the
// source file when watch is set.
func (c *CLI) runArrange(ctx context.Context, run arrangeRun, opts pipeline.Options, noCache, watch bool) error {
	if watch && run.source == stdinArg {
		return errors.New("--watch needs a lyrics file, not stdin")
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if !watch {
		return c.arrangeOnce(ctx, runner, run, opts)
	}

	rerun := func() {
		prog := newProgress(c.Logger)
		if err := c.arrangeOnce(ctx, runner, run, opts); err != nil {
			printError("%s", errs.UserMessage(err))
			return
		}
		prog.done("Arranged " + run.source)
	}
	rerun()
	return watchFile(ctx, run.source, watchDebounce, c.Logger, rerun)
}

// arrangeOnce reads the lyrics, arranges them and writes the result.
func (c *CLI) arrangeOnce(ctx context.Context, runner *pipeline.Runner, run arrangeRun, opts pipeline.Options) error {
	text, err := readLyrics(run.stdin, run.source)
	if err != nil {
		return err
	}
	opts.Text = text
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Arranging lyrics...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()

	if err != nil {
		if errs.IsLayoutFailure(err) {
			if werr := run.writeFailure(err); werr != nil {
				return werr
			}
		}
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if run.check {
		if err := result.Layout.Verify(clean.Words(text), clean.Letters(opts.Token)); err != nil {
			return fmt.Errorf("check layout: %w", err)
		}
		c.Logger.Debug("layout verified", "lines", len(result.Layout.Lines))
	}

	data, err := pipeline.RenderLayout(result.Layout, run.format)
	if err != nil {
		return err
	}
	if err := run.write(data); err != nil {
		return err
	}

	if run.output != "" {
		printSuccess("Layout complete")
		printFile(run.output)
		printStats(result.Stats.Words, len(result.Layout.Lines), result.Layout.Cap, result.CacheHit)
	}
	return nil
}

// write sends data to the output file, or stdout when none is set.
func (r arrangeRun) write(data []byte) error {
	if r.output == "" {
		_, err := r.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(r.output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", r.output, err)
	}
	return nil
}

// writeFailure writes the sentinel in the requested format.
func (r arrangeRun) writeFailure(cause error) error {
	if r.format != pipeline.FormatJSON {
		return r.write([]byte(acrostic.Sentinel + "\n"))
	}
	data, err := json.MarshalIndent(failureOutput{
		Code:     errs.GetCode(cause),
		Error:    errs.UserMessage(cause),
		Sentinel: acrostic.Sentinel,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode failure: %w", err)
	}
	return r.write(append(data, '\n'))
}
