package schema

import (
	"time"

	"github.com/feral-file/ff-uniques-indexer/internal/domain"
	"github.com/feral-file/ff-uniques-indexer/internal/types"
)

// UniqueInstance represents the unique_instances table - one NFT item
type UniqueInstance struct {
	// ID is classId-instanceId
	ID string `gorm:"column:id;primaryKey;type:text"`
	// InnerID is the item id within its class
	InnerID string `gorm:"column:inner_id;not null;type:text"`
	// ClassID references the owning collection
	ClassID string `gorm:"column:class_id;not null;type:text;index:idx_unique_instances_class"`
	// OwnerID references the holding account
	OwnerID *string `gorm:"column:owner_id;type:text;index:idx_unique_instances_owner"`
	// Status is the item lifecycle state
	Status domain.Status `gorm:"column:status;not null;type:varchar(9)"`
	// Metadata is the raw item metadata, usually a URI
	Metadata *string `gorm:"column:metadata;type:text"`
	// Attributes is the ordered key/value list of the item
	Attributes Attributes `gorm:"column:attributes;not null;type:jsonb"`
	// Price is the listing price, zero when not listed
	Price types.BigInt `gorm:"column:price;not null;type:numeric(78,0)"`
	// MintedAt is the time of the block that issued the item
	MintedAt *time.Time `gorm:"column:minted_at;type:timestamptz"`
	// CreatedAt is the timestamp when this record was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last written
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the UniqueInstance model
func (UniqueInstance) TableName() string {
	return "unique_instances"
}

// NewUniqueInstance returns a blank, unowned item of the class
func NewUniqueInstance(classID, instanceID uint32) *UniqueInstance {
	return &UniqueInstance{
		ID:         domain.ItemID(classID, instanceID),
		InnerID:    domain.ClassID(instanceID),
		ClassID:    domain.ClassID(classID),
		Status:     domain.StatusActive,
		Attributes: Attributes{},
		Price:      types.NewBigInt(0),
	}
}
