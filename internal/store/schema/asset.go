package schema

import (
	"time"

	"github.com/feral-file/ff-uniques-indexer/internal/domain"
	"github.com/feral-file/ff-uniques-indexer/internal/types"
)

// Asset represents the assets table - a fungible token class
type Asset struct {
	// ID is the chain assigned asset id
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Name, Symbol and Decimals come from Assets.MetadataSet
	Name     *string `gorm:"column:name;type:text"`
	Symbol   *string `gorm:"column:symbol;type:text"`
	Decimals *uint8  `gorm:"column:decimals;type:int4"`
	// Team addresses
	Owner   string  `gorm:"column:owner;not null;type:text;index:idx_assets_owner"`
	Admin   *string `gorm:"column:admin;type:text"`
	Issuer  *string `gorm:"column:issuer;type:text"`
	Creator *string `gorm:"column:creator;type:text"`
	Freezer *string `gorm:"column:freezer;type:text"`
	// MinBalance is taken from the create call when available
	MinBalance *types.BigInt `gorm:"column:min_balance;type:numeric(78,0)"`
	// TotalSupply tracks issued minus burned amounts
	TotalSupply types.BigInt `gorm:"column:total_supply;not null;type:numeric(78,0)"`
	// Status is the asset lifecycle state
	Status domain.Status `gorm:"column:status;not null;type:varchar(9)"`
	// IsMetadataFrozen is set when metadata was written with is_frozen
	IsMetadataFrozen bool `gorm:"column:is_metadata_frozen;not null;default:false"`
	// CreatedAt is the timestamp when this record was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last written
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Asset model
func (Asset) TableName() string {
	return "assets"
}

// NewAsset returns a blank asset with only its id populated
func NewAsset(id string) *Asset {
	return &Asset{ID: id, TotalSupply: types.NewBigInt(0), Status: domain.StatusActive}
}
