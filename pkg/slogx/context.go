package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// WithCorrelationID tags every later log line from ctx with the caller's
// correlation id so a relying party can trace its own requests.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	l := FromContext(ctx)
	return WithContext(ctx, l.With("correlation_id", id))
}
