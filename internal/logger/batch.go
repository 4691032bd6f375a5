package logger

import (
	"context"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// BatchInfo identifies the batch being processed for log fields and Sentry scope
type BatchInfo struct {
	ID         string
	RunID      string
	FromHeight uint64
	ToHeight   uint64
	Events     int
}

// Fields returns the batch as structured log fields
func (b BatchInfo) Fields() []zap.Field {
	return []zap.Field{
		zap.String("batchID", b.ID),
		zap.String("runID", b.RunID),
		zap.Uint64("fromHeight", b.FromHeight),
		zap.Uint64("toHeight", b.ToHeight),
		zap.Int("events", b.Events),
	}
}

// WithBatch returns a context carrying a Sentry hub scoped to the batch.
// Errors logged through the *Ctx helpers with this context are tagged with the batch.
func WithBatch(ctx context.Context, info BatchInfo) context.Context {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub = hub.Clone()
	if sentryClient != nil {
		hub.BindClient(sentryClient)
	}

	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("batch_id", info.ID)
		scope.SetTag("run_id", info.RunID)
		scope.SetContext("batch", sentry.Context{
			"from_height": info.FromHeight,
			"to_height":   info.ToHeight,
			"events":      info.Events,
		})
	})

	return sentry.SetHubOnContext(ctx, hub)
}

// FromBatch returns a logger carrying the batch fields and Sentry scope
func FromBatch(ctx context.Context, info BatchInfo) *zap.Logger {
	return FromContext(ctx).With(info.Fields()...)
}
