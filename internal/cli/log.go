// Package cli implements the acrostic command-line interface.
//
// This package provides commands for arranging lyrics into acrostic
// layouts, browsing alternative layouts interactively, inspecting the
// search lattice, serving the HTTP API and managing the layout cache. The
// CLI is built using cobra and logs with charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - arrange: Lay out lyrics from a file or stdin, optionally re-running on change
//   - browse: Pick one of the alternative layouts in a terminal table
//   - lattice: Write the search lattice as DOT, SVG or JSON
//   - serve: Run the HTTP API with Prometheus metrics
//   - cache: Manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Without it
// the level comes from the config file (log.level), defaulting to info.
// Logs go to stderr so layouts written to stdout stay pipeable.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Arranged 4 lines (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
