package processor

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-uniques-indexer/internal/adapter"
	"github.com/feral-file/ff-uniques-indexer/internal/cache"
	"github.com/feral-file/ff-uniques-indexer/internal/decoder"
	"github.com/feral-file/ff-uniques-indexer/internal/domain"
	"github.com/feral-file/ff-uniques-indexer/internal/handlers"
	"github.com/feral-file/ff-uniques-indexer/internal/logger"
	"github.com/feral-file/ff-uniques-indexer/internal/messaging"
	"github.com/feral-file/ff-uniques-indexer/internal/metrics"
	"github.com/feral-file/ff-uniques-indexer/internal/store"
)

// Config holds the configuration for the batch driver
type Config struct {
	ChainID       string
	StartBlock    uint64
	DecodeWorkers int
}

// Processor applies batches of chain events to the store
type Processor interface {
	// ProcessBatch applies one batch and commits it together with the block cursor
	ProcessBatch(ctx context.Context, batch *domain.Batch) error
	// Run pulls batches from the source until the context ends or a batch fails
	Run(ctx context.Context) error
	// Close stops the decode pool
	Close()
}

type processor struct {
	config  Config
	store   store.Store
	source  messaging.BatchSource
	decoder *decoder.Decoder
	table   handlers.Table
	metrics metrics.Metrics
	clock   adapter.Clock
	pool    pond.ResultPool[decoder.Event]
	runID   string
}

// NewProcessor creates a batch driver.
// source may be nil when batches are only fed through ProcessBatch.
func NewProcessor(
	cfg Config,
	st store.Store,
	source messaging.BatchSource,
	dec *decoder.Decoder,
	table handlers.Table,
	m metrics.Metrics,
	clock adapter.Clock,
) Processor {
	workers := cfg.DecodeWorkers
	if workers <= 0 {
		workers = 1
	}
	pool := pond.NewResultPool[decoder.Event](workers)
	m.RegisterPoolMetrics("decode", pool)

	return &processor{
		config:  cfg,
		store:   st,
		source:  source,
		decoder: dec,
		table:   table,
		metrics: m,
		clock:   clock,
		pool:    pool,
		runID:   uuid.New().String(),
	}
}

// pendingEvent is one event of the batch selected for reconciliation
type pendingEvent struct {
	block  domain.BlockHeader
	raw    domain.Event
	result pond.Result[decoder.Event]
}

// ProcessBatch applies the blocks of a batch strictly in height order.
// Blocks at or below the stored cursor were already committed and are skipped.
// Nothing is written unless every event applies; the flush and the cursor share one transaction.
func (p *processor) ProcessBatch(ctx context.Context, batch *domain.Batch) error {
	start := p.clock.Now()

	blocks := slices.Clone(batch.Blocks)
	slices.SortStableFunc(blocks, func(a, b domain.Block) int {
		return cmp.Compare(a.Height, b.Height)
	})

	cursor, err := p.store.GetBlockCursor(ctx, p.config.ChainID)
	if err != nil {
		return fmt.Errorf("failed to get block cursor: %w", err)
	}
	floor := max(cursor, p.config.StartBlock)
	first, _ := slices.BinarySearchFunc(blocks, floor+1, func(b domain.Block, height uint64) int {
		return cmp.Compare(b.Height, height)
	})
	if first > 0 {
		p.metrics.IncBlocksSkipped(first)
		logger.DebugCtx(ctx, "Skipping committed blocks",
			zap.Int("blocks", first),
			zap.Uint64("cursor", floor))
	}

	// a height is applied once per batch; the first delivered copy wins
	pending := slices.CompactFunc(blocks[first:], func(a, b domain.Block) bool {
		return a.Height == b.Height
	})
	if duplicates := len(blocks) - first - len(pending); duplicates > 0 {
		p.metrics.IncBlocksSkipped(duplicates)
		logger.WarnCtx(ctx, "Skipping duplicate blocks",
			zap.Int("blocks", duplicates),
			zap.Uint64("cursor", floor))
	}

	work := &domain.Batch{Blocks: pending}
	if len(work.Blocks) == 0 {
		p.metrics.IncBatchesProcessed(metrics.BatchSkipped)
		return nil
	}

	lo, hi := work.HeightRange()
	info := logger.BatchInfo{
		ID:         ulid.MustNewDefault(start).String(),
		RunID:      p.runID,
		FromHeight: lo,
		ToHeight:   hi,
		Events:     work.EventCount(),
	}
	ctx = logger.WithBatch(ctx, info)
	log := logger.FromBatch(ctx, info)
	log.Debug("Processing batch", zap.Int("blocks", len(work.Blocks)))

	if err := p.apply(ctx, work, hi); err != nil {
		p.metrics.IncBatchesProcessed(metrics.BatchFailed)
		return err
	}

	p.metrics.IncBatchesProcessed(metrics.BatchSucceeded)
	p.metrics.ObserveBatchSize(len(work.Blocks), info.Events)
	p.metrics.ObserveBatchDuration(p.clock.Since(start).Seconds())
	p.metrics.SetLastProcessedHeight(hi)

	log.Info("Batch committed", zap.Duration("duration", p.clock.Since(start)))
	return nil
}

// apply decodes, reconciles and flushes the batch, committing the cursor at height hi
func (p *processor) apply(ctx context.Context, batch *domain.Batch, hi uint64) error {
	events, err := p.decode(ctx, batch)
	if err != nil {
		return err
	}

	c := cache.New(p.store)
	hc := handlers.NewContext(c)
	for _, pending := range events {
		event, err := pending.result.Wait()
		if err != nil {
			return fmt.Errorf("failed to decode event %s: %w", pending.raw.ID, err)
		}

		handler, _ := p.table.Lookup(pending.raw.Kind)
		hc.At(pending.block, pending.raw)
		if err := handler(ctx, hc, event); err != nil {
			return fmt.Errorf("failed to apply event %s (%s): %w", pending.raw.ID, pending.raw.Kind, err)
		}
		p.metrics.IncEvents(pending.raw.Kind.String())
	}

	for _, anomaly := range hc.Anomalies() {
		p.metrics.IncAnomalies(anomaly.Reason)
	}

	flushStart := p.clock.Now()
	err = p.store.WithTransaction(ctx, func(tx store.Store) error {
		if err := c.Flush(ctx, tx); err != nil {
			return err
		}
		return tx.SetBlockCursor(ctx, p.config.ChainID, hi)
	})
	if err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	p.metrics.ObserveFlushDuration(p.clock.Since(flushStart).Seconds())

	return nil
}

// decode submits every reconciled event to the decode pool.
// The returned slice keeps emission order so results are consumed in sequence.
func (p *processor) decode(ctx context.Context, batch *domain.Batch) ([]pendingEvent, error) {
	var events []pendingEvent
	for i := range batch.Blocks {
		block := &batch.Blocks[i]
		header := block.Header()
		for j := range block.Events {
			raw := block.Events[j]
			raw.EnsureID(block.Height)

			if _, ok := p.table.Lookup(raw.Kind); !ok {
				logger.DebugCtx(ctx, "Ignoring event without handler",
					zap.String("eventID", raw.ID),
					zap.String("kind", raw.Kind.String()))
				p.metrics.IncUnhandledEvents(raw.Kind.String())
				continue
			}

			if err := ctx.Err(); err != nil {
				return nil, err
			}
			result := p.pool.SubmitErr(func() (decoder.Event, error) {
				return p.decoder.Decode(raw.Kind, raw.Version, raw.Payload)
			})
			events = append(events, pendingEvent{block: header, raw: raw, result: result})
		}
	}
	return events, nil
}

// Run loops over the source: fetch, apply, acknowledge.
// A failed batch is handed back for redelivery and stops the loop.
func (p *processor) Run(ctx context.Context) error {
	if p.source == nil {
		return fmt.Errorf("processor has no batch source")
	}

	logger.InfoCtx(ctx, "Starting batch processor",
		zap.String("chain", p.config.ChainID),
		zap.String("runID", p.runID))

	for {
		batch, err := p.source.NextBatch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.InfoCtx(ctx, "Shutting down batch processor")
				return ctx.Err()
			}
			return fmt.Errorf("failed to get next batch: %w", err)
		}

		if err := p.ProcessBatch(ctx, batch); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("runID", p.runID))
			if nakErr := p.source.Nak(context.WithoutCancel(ctx)); nakErr != nil {
				logger.ErrorCtx(ctx, nakErr, zap.String("message", "Failed to nak batch"))
			}
			return err
		}

		if err := p.source.Ack(ctx); err != nil {
			return fmt.Errorf("failed to ack batch: %w", err)
		}
	}
}

// Close stops the decode pool and waits for queued decodes
func (p *processor) Close() {
	p.pool.StopAndWait()
}
