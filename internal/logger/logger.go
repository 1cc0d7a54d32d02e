// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger configures the zerolog logger used for diagnostics.
// Command output meant for the user is written to an io.Writer by each
// stage; this logger carries everything else (config resolution, retries,
// skipped files) to stderr.
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey string

const (
	loggerKey ctxKey = "logger"
	runIDKey  ctxKey = "run_id"
)

var globalLogger = zerolog.New(io.Discard)

// Init configures the global logger. Unknown levels fall back to info.
// When jsonFormat is false output is a human-readable console format.
func Init(level string, jsonFormat bool, w io.Writer) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if w == nil {
		w = os.Stderr
	}

	out := w
	if !jsonFormat {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}

	globalLogger = zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("app", "readtime").
		Logger()
}

// Global returns the global logger.
func Global() *zerolog.Logger {
	return &globalLogger
}

// Get returns the logger stored in ctx, or the global logger.
func Get(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return &globalLogger
	}
	if l, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok {
		return l
	}
	return &globalLogger
}

// WithRunID tags the context logger with an index run ID.
func WithRunID(ctx context.Context, runID string) context.Context {
	l := Get(ctx).With().Str("run_id", runID).Logger()
	ctx = context.WithValue(ctx, runIDKey, runID)
	return context.WithValue(ctx, loggerKey, &l)
}

// RunID returns the index run ID stored in ctx, if any.
func RunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}
