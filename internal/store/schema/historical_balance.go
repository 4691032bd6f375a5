package schema

import (
	"time"

	"github.com/feral-file/ff-uniques-indexer/internal/types"
)

// HistoricalBalance represents the historical_balances table - a native balance snapshot after a transfer
type HistoricalBalance struct {
	// ID is eventId-FROM or eventId-TO
	ID string `gorm:"column:id;primaryKey;type:text"`
	// AccountID references the account
	AccountID string `gorm:"column:account_id;not null;type:text;index:idx_historical_balances_account"`
	// Balance is the account balance right after the event
	Balance types.BigInt `gorm:"column:balance;not null;type:numeric(78,0)"`
	// Block context
	BlockNumber uint64    `gorm:"column:block_number;not null"`
	Timestamp   time.Time `gorm:"column:timestamp;not null;type:timestamptz"`
	// CreatedAt is the timestamp when this record was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the HistoricalBalance model
func (HistoricalBalance) TableName() string {
	return "historical_balances"
}
