// Package logging builds the charmbracelet loggers shared by the daemon,
// the layout engine and the CLI. Loggers travel through context.Context so
// cobra commands and long-running services pick up the same instance.
package logging

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// New creates a logger with timestamps formatted as "HH:MM:SS.ms".
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ParseLevel accepts debug, info, warn/warning and error.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return log.InfoLevel, nil
	case "warning":
		return log.WarnLevel, nil
	}
	lvl, err := log.ParseLevel(s)
	if err != nil || lvl == log.FatalLevel {
		return log.InfoLevel, fmt.Errorf("invalid log level %q (expected debug, info, warning or error)", s)
	}
	return lvl, nil
}

type ctxKey int

const loggerKey ctxKey = 0

// WithLogger returns a new context carrying l.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext retrieves the logger from ctx, falling back to log.Default().
func FromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
