package logging

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type contextKey int

const (
	runIDKey contextKey = iota
	opKey
)

// WithRun tags ctx with a fresh run id. Every log line written under the
// returned context carries it, so one CLI invocation or dashboard session
// can be picked out of a shared log.
func WithRun(ctx context.Context) context.Context {
	return context.WithValue(ctx, runIDKey, uuid.NewString()[:8])
}

// WithOp names the operation running under ctx.
func WithOp(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, opKey, op)
}

// RunID returns the run id carried by ctx, or "".
func RunID(ctx context.Context) string {
	return stringValue(ctx, runIDKey)
}

// Op returns the operation name carried by ctx, or "".
func Op(ctx context.Context) string {
	return stringValue(ctx, opKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

// LoggerFromContext returns the logger annotated with the run id and
// operation from ctx.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := Logger()
	if id := RunID(ctx); id != "" {
		logger = logger.With(KeyRunID, id)
	}
	if op := Op(ctx); op != "" {
		logger = logger.With(KeyOperation, op)
	}
	return logger
}
