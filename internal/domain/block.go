package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Block is one chain block as delivered by the event source
type Block struct {
	Height    uint64    `json:"height"`
	Hash      string    `json:"hash"`
	Timestamp time.Time `json:"timestamp"`
	Events    []Event   `json:"events"`
}

// Event is a raw, schema-versioned chain event inside a block
type Event struct {
	ID          string          `json:"id,omitempty"`           // globally unique, ordered by block height then index
	Index       uint32          `json:"index"`                  // position of the event in its block
	Kind        EventKind       `json:"kind"`                   // e.g. "Assets.Transferred"
	Version     SchemaVersion   `json:"version"`                // runtime spec version of the payload layout
	Payload     json.RawMessage `json:"payload"`                // opaque event arguments
	ExtrinsicID *string         `json:"extrinsic_id,omitempty"` // owning extrinsic, if any
	Tip         *string         `json:"tip,omitempty"`          // extrinsic tip in plancks, decimal string
	CallArgs    json.RawMessage `json:"call_args,omitempty"`    // arguments of the call that emitted the event, if known
}

// EventID builds the canonical event id from block height and in-block position
func EventID(height uint64, index uint32) string {
	return fmt.Sprintf("%010d-%06d", height, index)
}

// EnsureID fills the event id from block height and index when the source omitted it
func (e *Event) EnsureID(height uint64) {
	if e.ID == "" {
		e.ID = EventID(height, e.Index)
	}
}

// Header returns the block without its events
func (b *Block) Header() BlockHeader {
	return BlockHeader{
		Height:    b.Height,
		Hash:      b.Hash,
		Timestamp: b.Timestamp,
	}
}

// BlockHeader identifies the block an event was observed in
type BlockHeader struct {
	Height    uint64
	Hash      string
	Timestamp time.Time
}

// Batch is a contiguous range of blocks processed and flushed together
type Batch struct {
	Blocks []Block
}

// EventCount returns the number of events across all blocks of the batch
func (b *Batch) EventCount() int {
	n := 0
	for i := range b.Blocks {
		n += len(b.Blocks[i].Events)
	}
	return n
}

// HeightRange returns the lowest and highest block height of the batch
func (b *Batch) HeightRange() (uint64, uint64) {
	if len(b.Blocks) == 0 {
		return 0, 0
	}
	lo, hi := b.Blocks[0].Height, b.Blocks[0].Height
	for _, block := range b.Blocks[1:] {
		lo = min(lo, block.Height)
		hi = max(hi, block.Height)
	}
	return lo, hi
}
