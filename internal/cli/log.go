// Package cli implements the chordwheel command-line interface.
//
// This package provides commands for rendering relationship files as chord
// diagrams, inspecting their ribbons in the terminal, serving them over HTTP
// and managing the local cache and config file. The CLI is built using cobra
// and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - render: Generate SVG, PNG or JSON output from a relationship file
//   - layout: Print the canonical entity order and arc spans
//   - inspect: Browse ribbons and their hover tooltips
//   - serve: Run the HTTP server
//   - cache, config: Manage the local cache and the config file
//
// # Configuration
//
// Diagram settings come from the config file, CHORDWHEEL_* environment
// variables and flags, in increasing order of precedence.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
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

	"github.com/matzehuels/chordwheel/pkg/observability"
)

// newLogger creates a logger writing to w at level, with timestamps like
// "14:32:01.45".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// traceStages routes pipeline and cache events to l while the returned
// func has not been called. It does nothing unless l logs at debug level,
// so a normal run keeps the no-op hooks.
func traceStages(l *log.Logger) (restore func()) {
	if l.GetLevel() > log.DebugLevel {
		return func() {}
	}
	hooks := observability.NewLogHooks(l)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	return observability.Reset
}

// progress times one command and logs its outcome.
// Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time and any extra key/value pairs, e.g.
// "Rendered entities=12 ribbons=20 took=4ms".
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
