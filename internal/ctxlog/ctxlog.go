// SPDX-License-Identifier: MPL-2.0

// Package ctxlog carries a charmbracelet logger through context.Context.
package ctxlog

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// key is an unexported type to prevent collisions with context keys from other packages.
type key struct{}

var (
	loggerKey = key{}

	// discard is returned when no logger was attached, so library callers never
	// have to wire logging to use the engine.
	discard = log.NewWithOptions(io.Discard, log.Options{})
)

// New creates a logger writing to stderr with the given level name
// ("debug", "info", "warn", "error"). Unknown names fall back to info.
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          "stylevars",
		Level:           lvl,
		ReportTimestamp: lvl == log.DebugLevel,
	})
}

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from ctx. Without one it returns a logger
// that discards everything.
func FromContext(ctx context.Context) *log.Logger {
	if logger, ok := ctx.Value(loggerKey).(*log.Logger); ok && logger != nil {
		return logger
	}
	return discard
}
