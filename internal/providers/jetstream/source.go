package jetstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/feral-file/ff-uniques-indexer/internal/adapter"
	"github.com/feral-file/ff-uniques-indexer/internal/domain"
	"github.com/feral-file/ff-uniques-indexer/internal/logger"
	"github.com/feral-file/ff-uniques-indexer/internal/messaging"
)

var (
	// ErrBatchPending is returned by NextBatch while the previous batch is neither acked nor naked
	ErrBatchPending = errors.New("previous batch is still pending")
	// ErrMalformedBlock is returned by NextBatch when a fetched message is not a block
	ErrMalformedBlock = errors.New("malformed block message")
)

type source struct {
	nc       adapter.NatsConn
	consumer adapter.Consumer
	json     adapter.JSON
	config   Config

	// fetchBackoff builds the retry policy of one NextBatch call
	fetchBackoff func() backoff.BackOff
	pending      []adapter.Message
}

// NewSource creates a durable pull consumer on the block stream
func NewSource(ctx context.Context, cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (messaging.BatchSource, error) {
	nc, js, err := connect(cfg, natsJS)
	if err != nil {
		return nil, err
	}

	consumerConfig := jetstream.ConsumerConfig{
		Durable:       cfg.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       cfg.AckWait,
		MaxDeliver:    cfg.MaxDeliver,
		FilterSubject: cfg.Subject,
	}

	consumer, err := js.CreateOrUpdateConsumer(ctx, cfg.StreamName, consumerConfig)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create/update consumer: %w", err)
	}

	info, err := consumer.Info(ctx)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to get consumer info: %w", err)
	}
	logger.InfoCtx(ctx, "Consumer created/retrieved",
		zap.String("consumer", info.Name),
		zap.Uint64("pending", info.NumPending))

	return &source{
		nc:       nc,
		consumer: consumer,
		json:     jsonAdapter,
		config:   cfg,
		fetchBackoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 30 * time.Second
			b.MaxElapsedTime = 5 * time.Minute
			return b
		},
	}, nil
}

// NextBatch pulls the next blocks from the stream.
// A message that does not decode as a block fails the whole fetch: every fetched
// message is naked and ErrMalformedBlock is returned, so no block is skipped.
func (s *source) NextBatch(ctx context.Context) (*domain.Batch, error) {
	if len(s.pending) > 0 {
		return nil, ErrBatchPending
	}

	for {
		msgs, err := s.fetch(ctx)
		if err != nil {
			return nil, err
		}

		batch := &domain.Batch{}
		for i, msg := range msgs {
			var block domain.Block
			if err := s.json.Unmarshal(msg.Data(), &block); err != nil {
				s.pending = msgs
				if nakErr := s.Nak(ctx); nakErr != nil {
					logger.ErrorCtx(ctx, nakErr, zap.String("message", "Failed to nak fetched messages"))
				}
				return nil, fmt.Errorf("%w: message %d of %d: %w", ErrMalformedBlock, i+1, len(msgs), err)
			}
			batch.Blocks = append(batch.Blocks, block)
		}
		s.pending = msgs

		if len(batch.Blocks) > 0 {
			return batch, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
}

// fetch pulls one batch of messages, retrying transient failures
func (s *source) fetch(ctx context.Context) ([]adapter.Message, error) {
	var msgs []adapter.Message
	var attempt int
	operation := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}

		var err error
		msgs, err = s.consumer.Fetch(s.config.FetchSize, jetstream.FetchMaxWait(s.config.FetchMaxWait))
		return err
	}
	notify := func(err error, next time.Duration) {
		attempt++
		logger.WarnCtx(ctx, "Fetch failed, retrying",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.Duration("next_retry_in", next))
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(s.fetchBackoff(), ctx), notify); err != nil {
		return nil, fmt.Errorf("failed to fetch blocks: %w", err)
	}
	return msgs, nil
}

// Ack acknowledges every message of the pending batch
func (s *source) Ack(ctx context.Context) error {
	return s.settle(ctx, "ack", adapter.Message.Ack)
}

// Nak asks for redelivery of every message of the pending batch
func (s *source) Nak(ctx context.Context) error {
	return s.settle(ctx, "nak", adapter.Message.Nak)
}

func (s *source) settle(ctx context.Context, action string, fn func(adapter.Message) error) error {
	msgs := s.pending
	s.pending = nil

	var errs []error
	for _, msg := range msgs {
		if err := fn(msg); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to %s %d of %d messages: %w", action, len(errs), len(msgs), errors.Join(errs...))
	}

	logger.DebugCtx(ctx, "Batch settled", zap.String("action", action), zap.Int("messages", len(msgs)))
	return nil
}

// Close closes the NATS connection
func (s *source) Close() {
	if s.nc == nil {
		return
	}

	s.nc.Close()
}
