package messaging

import (
	"context"

	"github.com/feral-file/ff-uniques-indexer/internal/domain"
)

// BatchSource delivers batches of blocks to the processor
//
// A batch stays pending until it is acknowledged with Ack or returned with Nak.
// NextBatch must not be called again while a batch is pending.
//
//go:generate mockgen -source=source.go -destination=../mocks/source.go -package=mocks -mock_names=BatchSource=MockBatchSource
type BatchSource interface {
	// NextBatch blocks until at least one block is available
	NextBatch(ctx context.Context) (*domain.Batch, error)
	// Ack marks the pending batch as processed
	Ack(ctx context.Context) error
	// Nak returns the pending batch for redelivery
	Nak(ctx context.Context) error
	// Close closes the connection
	Close()
}
