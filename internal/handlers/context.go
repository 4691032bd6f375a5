package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/ff-uniques-indexer/internal/cache"
	"github.com/feral-file/ff-uniques-indexer/internal/decoder"
	"github.com/feral-file/ff-uniques-indexer/internal/domain"
	"github.com/feral-file/ff-uniques-indexer/internal/logger"
	"github.com/feral-file/ff-uniques-indexer/internal/types"
)

// Anomaly reasons
const (
	AnomalyInvalidAddress  = "invalid_address"
	AnomalyNegativeBalance = "negative_balance"
	AnomalyMissingInstance = "missing_instance"
	AnomalyDestroyedEntity = "destroyed_entity"
	AnomalyInvalidTip      = "invalid_tip"
	AnomalyInvalidCallArgs = "invalid_call_args"
)

// Anomaly is a non-fatal inconsistency observed while applying an event
type Anomaly struct {
	Reason  string
	EventID string
	Kind    domain.EventKind
	Detail  string
}

// Context carries what a handler needs besides the decoded event.
// One Context serves a whole batch; Block and Event are moved forward by the driver.
type Context struct {
	Cache *cache.Cache
	Block domain.BlockHeader
	Event domain.Event

	anomalies []Anomaly
}

// NewContext creates a handler context over the batch cache
func NewContext(c *cache.Cache) *Context {
	return &Context{Cache: c}
}

// At points the context at the event being applied
func (hc *Context) At(block domain.BlockHeader, event domain.Event) {
	hc.Block = block
	hc.Event = event
}

// Anomaly records and logs a non-fatal inconsistency
func (hc *Context) Anomaly(ctx context.Context, reason string, format string, args ...any) {
	anomaly := Anomaly{
		Reason:  reason,
		EventID: hc.Event.ID,
		Kind:    hc.Event.Kind,
		Detail:  fmt.Sprintf(format, args...),
	}
	hc.anomalies = append(hc.anomalies, anomaly)

	logger.WarnCtx(ctx, "Event anomaly",
		zap.String("reason", reason),
		zap.String("eventID", anomaly.EventID),
		zap.String("kind", anomaly.Kind.String()),
		zap.Uint64("blockNumber", hc.Block.Height),
		zap.String("detail", anomaly.Detail))
}

// Anomalies returns the anomalies recorded so far
func (hc *Context) Anomalies() []Anomaly {
	return hc.anomalies
}

// invalidAddress records the skip of an event carrying an unusable address
func (hc *Context) invalidAddress(ctx context.Context, fields ...string) {
	hc.Anomaly(ctx, AnomalyInvalidAddress, "event skipped, invalid %v", fields)
}

// transition moves a status to next. DESTROYED is terminal: a later change is refused and recorded.
func (hc *Context) transition(ctx context.Context, status *domain.Status, next domain.Status, entity string) {
	if status.IsTerminal() && next != *status {
		hc.Anomaly(ctx, AnomalyDestroyedEntity, "%s is %s, refused %s", entity, *status, next)
		return
	}
	*status = next
}

// checkBalance records a negative balance; balances are never clamped
func (hc *Context) checkBalance(ctx context.Context, entity string, balance types.BigInt) {
	if balance.Sign() < 0 {
		hc.Anomaly(ctx, AnomalyNegativeBalance, "%s balance is %s", entity, balance)
	}
}

// Handler applies one decoded event to the batch cache
type Handler func(ctx context.Context, hc *Context, event decoder.Event) error

// handle adapts a handler of one concrete event type
func handle[E decoder.Event](fn func(ctx context.Context, hc *Context, event E) error) Handler {
	return func(ctx context.Context, hc *Context, event decoder.Event) error {
		e, ok := event.(E)
		if !ok {
			var want E
			return fmt.Errorf("%w: handler for %T received %T", domain.ErrMalformedPayload, want, event)
		}
		return fn(ctx, hc, e)
	}
}
