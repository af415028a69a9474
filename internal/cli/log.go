// Package cli implements the stitchgrid command-line interface.
//
// This package provides commands for generating stitch patterns, inspecting
// single partitions, browsing seeds interactively, serving patterns over HTTP
// and managing the local cache and gallery. The CLI is built using cobra and
// logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - render: Generate a pattern and write SVG, PNG, PDF or JSON
//   - partition: Print the offsets of one warped axis
//   - explore: Browse seeds in a terminal UI
//   - serve: Run the HTTP service
//   - gallery: List, show, render and delete saved patterns
//   - cache: Manage the local layout and render cache
//
// # Configuration
//
// Defaults are read from $XDG_CONFIG_HOME/stitchgrid/config.toml, or from the
// file given with --config. Flags set on the command line take precedence.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// attached to the command context and can be retrieved with loggerFromContext.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w at level, stamped "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// timed logs how long a startup step took, e.g. "Connected to Redis (12ms)".
type timed struct {
	logger *log.Logger
	start  time.Time
}

func startTimer(l *log.Logger) timed {
	return timed{logger: l, start: time.Now()}
}

func (t timed) done(msg string) {
	t.logger.Infof("%s (%s)", msg, time.Since(t.start).Round(time.Millisecond))
}

type loggerKey struct{}

// withLogger attaches l to ctx for loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when the command ran without one.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
