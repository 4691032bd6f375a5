package schema

import (
	"time"

	"github.com/feral-file/ff-uniques-indexer/internal/domain"
	"github.com/feral-file/ff-uniques-indexer/internal/types"
)

// AssetBalance represents the asset_balances table - one account's holding of one asset
type AssetBalance struct {
	// ID is assetId-accountId
	ID string `gorm:"column:id;primaryKey;type:text"`
	// AssetID references the asset being held
	AssetID string `gorm:"column:asset_id;not null;type:text;index:idx_asset_balances_asset"`
	// AccountID references the holding account
	AccountID string `gorm:"column:account_id;not null;type:text;index:idx_asset_balances_account"`
	// Balance is the current holding (no floor clamp)
	Balance types.BigInt `gorm:"column:balance;not null;type:numeric(78,0)"`
	// Status is ACTIVE or FROZEN for account level freezes
	Status domain.Status `gorm:"column:status;not null;type:varchar(9)"`
	// CreatedAt is the timestamp when this record was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last written
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the AssetBalance model
func (AssetBalance) TableName() string {
	return "asset_balances"
}

// NewAssetBalance returns a zero, active balance for the account and asset
func NewAssetBalance(assetID string, accountID domain.Address) *AssetBalance {
	return &AssetBalance{
		ID:        domain.AssetBalanceID(assetID, accountID),
		AssetID:   assetID,
		AccountID: accountID.String(),
		Balance:   types.NewBigInt(0),
		Status:    domain.StatusActive,
	}
}
