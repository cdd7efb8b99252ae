// Package cli implements the dungeongen command-line interface.
//
// Commands generate dungeons, query paths through them, browse them in a
// terminal viewer, serve them over HTTP, and manage the layout cache. The
// CLI is built with cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - generate: Build a dungeon and write it as ascii, json, dot, svg or tiles
//   - path: Search a route between two points of a generated dungeon
//   - view: Interactive terminal viewer
//   - serve: HTTP and websocket API
//   - cache: Inspect and purge the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The root
// command attaches the logger to the command context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps writing to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with
// elapsed duration. It is for use by a single goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Generated 24 rooms (12ms)".
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(msg, append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() when
// none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
