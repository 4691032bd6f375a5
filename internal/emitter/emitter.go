package emitter

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-uniques-indexer/internal/adapter"
	"github.com/feral-file/ff-uniques-indexer/internal/domain"
	"github.com/feral-file/ff-uniques-indexer/internal/logger"
	"github.com/feral-file/ff-uniques-indexer/internal/messaging"
)

// maxLineSize bounds one encoded block
const maxLineSize = 64 * 1024 * 1024

// Config holds the configuration for the block emitter
type Config struct {
	FromHeight    uint64        // Blocks below are not published
	ToHeight      uint64        // Blocks above are not published; 0 means no upper bound
	ProgressEvery time.Duration // Interval between progress logs
}

// Emitter defines the interface for the block emitter
type Emitter interface {
	// Run publishes every block of the input and returns once the input is exhausted
	Run(ctx context.Context) error
	// Close closes the publisher
	Close()
}

// emitter replays newline-delimited JSON blocks into the block stream
type emitter struct {
	input     io.Reader
	publisher messaging.BlockPublisher
	json      adapter.JSON
	config    Config
	clock     adapter.Clock
}

// NewEmitter creates a new block emitter
func NewEmitter(
	input io.Reader,
	pub messaging.BlockPublisher,
	jsonAdapter adapter.JSON,
	cfg Config,
	clock adapter.Clock,
) Emitter {
	return &emitter{
		input:     input,
		publisher: pub,
		json:      jsonAdapter,
		config:    cfg,
		clock:     clock,
	}
}

// Run publishes the input blocks in file order.
// Event ids are filled in before publishing so consumers see canonical ids.
func (e *emitter) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(e.input)
	scanner.Buffer(make([]byte, 0, 1024*1024), maxLineSize)

	var line, published, skipped int
	lastLog := e.clock.Now()
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		var block domain.Block
		if err := e.json.Unmarshal(data, &block); err != nil {
			return fmt.Errorf("failed to decode block on line %d: %w", line, err)
		}

		if !e.inRange(block.Height) {
			skipped++
			continue
		}

		for i := range block.Events {
			block.Events[i].EnsureID(block.Height)
		}

		if err := e.publisher.PublishBlock(ctx, &block); err != nil {
			return err
		}
		published++

		if e.config.ProgressEvery > 0 && e.clock.Since(lastLog) >= e.config.ProgressEvery {
			logger.InfoCtx(ctx, "Publishing blocks",
				zap.Uint64("height", block.Height),
				zap.Int("published", published))
			lastLog = e.clock.Now()
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read blocks: %w", err)
	}

	logger.InfoCtx(ctx, "Blocks published",
		zap.Int("published", published),
		zap.Int("skipped", skipped))
	return nil
}

func (e *emitter) inRange(height uint64) bool {
	if height < e.config.FromHeight {
		return false
	}
	return e.config.ToHeight == 0 || height <= e.config.ToHeight
}

// Close closes the publisher
func (e *emitter) Close() {
	e.publisher.Close()
}
