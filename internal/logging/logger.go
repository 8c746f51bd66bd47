// Package logging defines the structured-logging interface used across
// quotekeeper and its zap, slog and no-op implementations.
package logging

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "quote created", "quote_id", id, "status", code)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions, such as an unexpected
	// response shape from the API.
	Warn(ctx context.Context, msg string, args ...any)

	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Backend selects a Logger implementation.
type Backend string

const (
	BackendZap  Backend = "zap"
	BackendSlog Backend = "slog"
	BackendNop  Backend = "nop"
)

// New builds a Logger writing to stderr for the given backend and level
// ("debug", "info", "warn", "error").
func New(backend Backend, level string) (Logger, error) {
	switch Backend(strings.ToLower(string(backend))) {
	case BackendZap, "":
		return NewZapLogger(level)
	case BackendSlog:
		return NewTextSlogLogger(os.Stderr, level)
	case BackendNop:
		return NewNopLogger(), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}
