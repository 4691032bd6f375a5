package schema

import (
	"time"

	"github.com/feral-file/ff-uniques-indexer/internal/domain"
)

// UniqueClass represents the unique_classes table - an NFT collection
type UniqueClass struct {
	// ID is the chain assigned class id
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Team addresses
	Owner   *string `gorm:"column:owner;type:text;index:idx_unique_classes_owner"`
	Admin   *string `gorm:"column:admin;type:text"`
	Issuer  *string `gorm:"column:issuer;type:text"`
	Creator *string `gorm:"column:creator;type:text"`
	Freezer *string `gorm:"column:freezer;type:text"`
	// Status is the collection lifecycle state
	Status domain.Status `gorm:"column:status;not null;type:varchar(9)"`
	// Metadata is the raw collection metadata, usually a URI
	Metadata *string `gorm:"column:metadata;type:text"`
	// Attributes is the ordered key/value list of the collection
	Attributes Attributes `gorm:"column:attributes;not null;type:jsonb"`
	// MaxSupply is set by Uniques.CollectionMaxSupplySet
	MaxSupply *uint32 `gorm:"column:max_supply;type:int8"`
	// BlockTimestamp is the time of the block that created the class
	BlockTimestamp *time.Time `gorm:"column:block_timestamp;type:timestamptz"`
	// CreatedAt is the timestamp when this record was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last written
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the UniqueClass model
func (UniqueClass) TableName() string {
	return "unique_classes"
}

// NewUniqueClass returns a blank class with only its id populated
func NewUniqueClass(id string) *UniqueClass {
	return &UniqueClass{ID: id, Status: domain.StatusActive, Attributes: Attributes{}}
}
