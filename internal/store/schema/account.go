package schema

import (
	"time"

	"github.com/feral-file/ff-uniques-indexer/internal/types"
)

// Account represents the accounts table - one row per SS58 address seen in any event
type Account struct {
	// ID is the SS58 encoded address
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Balance is the running native balance derived from Balances events (may go negative, see DESIGN.md)
	Balance types.BigInt `gorm:"column:balance;not null;type:numeric(78,0)"`
	// CreatedAt is the timestamp when this account was first indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this account was last written
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Account model
func (Account) TableName() string {
	return "accounts"
}

// NewAccount returns a blank account with only its id populated
func NewAccount(id string) *Account {
	return &Account{ID: id, Balance: types.NewBigInt(0)}
}
