package schema

import (
	"time"

	"github.com/feral-file/ff-uniques-indexer/internal/domain"
	"github.com/feral-file/ff-uniques-indexer/internal/types"
)

// Transfer represents the transfers table - fungible asset and native balance activity
type Transfer struct {
	// ID is the id of the source event
	ID string `gorm:"column:id;primaryKey;type:text"`
	// AssetID is nil for native balance transfers
	AssetID *string `gorm:"column:asset_id;type:text;index:idx_transfers_asset"`
	// Amount moved, burned, issued or frozen
	Amount *types.BigInt `gorm:"column:amount;type:numeric(78,0)"`
	// Parties
	From      *string `gorm:"column:from_address;type:text;index:idx_transfers_from"`
	To        *string `gorm:"column:to_address;type:text;index:idx_transfers_to"`
	Delegator *string `gorm:"column:delegator;type:text"`
	// Fee is attached later by Balances.Deposit through the extrinsic id
	Fee *types.BigInt `gorm:"column:fee;type:numeric(78,0)"`
	// Type is the ledger row type
	Type domain.TransferType `gorm:"column:type;not null;type:text"`
	// ExtrinsicID is the originating extrinsic
	ExtrinsicID *string `gorm:"column:extrinsic_id;type:text;index:idx_transfers_extrinsic"`
	// Success is always true for rows derived from events
	Success bool `gorm:"column:success;not null;default:true"`
	// Block context
	BlockNumber uint64    `gorm:"column:block_number;not null"`
	BlockHash   string    `gorm:"column:block_hash;not null;type:text"`
	Timestamp   time.Time `gorm:"column:timestamp;not null;type:timestamptz"`
	// CreatedAt is the timestamp when this record was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Transfer model
func (Transfer) TableName() string {
	return "transfers"
}
