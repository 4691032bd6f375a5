package schema

import (
	"time"

	"github.com/feral-file/ff-uniques-indexer/internal/domain"
	"github.com/feral-file/ff-uniques-indexer/internal/types"
)

// ActivityEvent represents the activity_events table - NFT class and item activity
type ActivityEvent struct {
	// ID is the id of the source event
	ID string `gorm:"column:id;primaryKey;type:text"`
	// ClassID references the collection
	ClassID *string `gorm:"column:class_id;type:text;index:idx_activity_events_class"`
	// InstanceID references the item, nil for class level events
	InstanceID *string `gorm:"column:instance_id;type:text;index:idx_activity_events_instance"`
	// Parties
	From *string `gorm:"column:from_address;type:text"`
	To   *string `gorm:"column:to_address;type:text"`
	// Price is the listing or sale price
	Price *types.BigInt `gorm:"column:price;type:numeric(78,0)"`
	// Type is the ledger row type
	Type domain.TransferType `gorm:"column:type;not null;type:text"`
	// Meta carries the key/value or metadata the event set, when any
	Meta *string `gorm:"column:meta;type:text"`
	// ExtrinsicID is the originating extrinsic
	ExtrinsicID *string `gorm:"column:extrinsic_id;type:text"`
	// Block context
	BlockNumber uint64    `gorm:"column:block_number;not null;index:idx_activity_events_block"`
	BlockHash   string    `gorm:"column:block_hash;not null;type:text"`
	Timestamp   time.Time `gorm:"column:timestamp;not null;type:timestamptz"`
	// CreatedAt is the timestamp when this record was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the ActivityEvent model
func (ActivityEvent) TableName() string {
	return "activity_events"
}

// AccountTransfer represents the account_transfers table - one side of an NFT movement
type AccountTransfer struct {
	// ID is eventId-FROM or eventId-TO
	ID string `gorm:"column:id;primaryKey;type:text"`
	// EventID references the activity event
	EventID string `gorm:"column:event_id;not null;type:text;index:idx_account_transfers_event"`
	// AccountID references the account on this side
	AccountID string `gorm:"column:account_id;not null;type:text;index:idx_account_transfers_account"`
	// Direction is FROM or TO
	Direction domain.Direction `gorm:"column:direction;not null;type:varchar(4)"`
	// CreatedAt is the timestamp when this record was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the AccountTransfer model
func (AccountTransfer) TableName() string {
	return "account_transfers"
}
