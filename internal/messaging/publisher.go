package messaging

import (
	"context"

	"github.com/feral-file/ff-uniques-indexer/internal/domain"
)

// BlockPublisher defines the interface for publishing blocks to the message queue
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=BlockPublisher=MockBlockPublisher
type BlockPublisher interface {
	// PublishBlock publishes one block with its events
	PublishBlock(ctx context.Context, block *domain.Block) error
	// Close closes the connection
	Close()
}
