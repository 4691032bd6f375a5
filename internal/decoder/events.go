package decoder

import (
	"math/big"

	"github.com/feral-file/ff-uniques-indexer/internal/domain"
)

// Event is a normalized chain event
type Event interface {
	Kind() domain.EventKind
}

// AssetCreated is emitted when a fungible asset is created through the public call
type AssetCreated struct {
	AssetID uint32
	Creator domain.Address
	Owner   domain.Address
}

func (AssetCreated) Kind() domain.EventKind { return domain.EventAssetsCreated }

// AssetForceCreated is emitted when root creates a fungible asset
type AssetForceCreated struct {
	AssetID uint32
	Owner   domain.Address
}

func (AssetForceCreated) Kind() domain.EventKind { return domain.EventAssetsForceCreated }

// AssetIssued is emitted when new units are minted to an account
type AssetIssued struct {
	AssetID uint32
	Owner   domain.Address
	Amount  *big.Int
}

func (AssetIssued) Kind() domain.EventKind { return domain.EventAssetsIssued }

// AssetTransferred is emitted when units move between two accounts
type AssetTransferred struct {
	AssetID uint32
	From    domain.Address
	To      domain.Address
	Amount  *big.Int
}

func (AssetTransferred) Kind() domain.EventKind { return domain.EventAssetsTransferred }

// AssetTransferredApproved is emitted when a delegate moves units on behalf of the owner
type AssetTransferredApproved struct {
	AssetID     uint32
	Owner       domain.Address
	Delegate    domain.Address
	Destination domain.Address
	Amount      *big.Int
}

func (AssetTransferredApproved) Kind() domain.EventKind {
	return domain.EventAssetsTransferredApproved
}

// AssetBurned is emitted when units are destroyed from an account
type AssetBurned struct {
	AssetID uint32
	Owner   domain.Address
	Amount  *big.Int
}

func (AssetBurned) Kind() domain.EventKind { return domain.EventAssetsBurned }

// AssetAccountFrozen is emitted when one account's holding of an asset is frozen
type AssetAccountFrozen struct {
	AssetID uint32
	Who     domain.Address
}

func (AssetAccountFrozen) Kind() domain.EventKind { return domain.EventAssetsFrozen }

// AssetAccountThawed is emitted when one account's holding of an asset is thawed
type AssetAccountThawed struct {
	AssetID uint32
	Who     domain.Address
}

func (AssetAccountThawed) Kind() domain.EventKind { return domain.EventAssetsThawed }

// AssetFrozen is emitted when the whole asset is frozen
type AssetFrozen struct {
	AssetID uint32
}

func (AssetFrozen) Kind() domain.EventKind { return domain.EventAssetsAssetFrozen }

// AssetThawed is emitted when the whole asset is thawed
type AssetThawed struct {
	AssetID uint32
}

func (AssetThawed) Kind() domain.EventKind { return domain.EventAssetsAssetThawed }

// AssetOwnerChanged is emitted when the asset owner changes
type AssetOwnerChanged struct {
	AssetID uint32
	Owner   domain.Address
}

func (AssetOwnerChanged) Kind() domain.EventKind { return domain.EventAssetsOwnerChanged }

// AssetTeamChanged is emitted when the asset management team changes
type AssetTeamChanged struct {
	AssetID uint32
	Issuer  domain.Address
	Admin   domain.Address
	Freezer domain.Address
}

func (AssetTeamChanged) Kind() domain.EventKind { return domain.EventAssetsTeamChanged }

// AssetMetadataSet is emitted when the asset name, symbol or decimals change
type AssetMetadataSet struct {
	AssetID  uint32
	Name     string
	Symbol   string
	Decimals uint8
	IsFrozen bool
}

func (AssetMetadataSet) Kind() domain.EventKind { return domain.EventAssetsMetadataSet }

// AssetMetadataCleared is emitted when asset metadata is removed
type AssetMetadataCleared struct {
	AssetID uint32
}

func (AssetMetadataCleared) Kind() domain.EventKind { return domain.EventAssetsMetadataCleared }

// AssetDestroyed is emitted when an asset is destroyed
type AssetDestroyed struct {
	AssetID uint32
}

func (AssetDestroyed) Kind() domain.EventKind { return domain.EventAssetsDestroyed }

// ClassCreated is emitted when an NFT class is created through the public call
type ClassCreated struct {
	ClassID uint32
	Creator domain.Address
	Owner   domain.Address
}

func (ClassCreated) Kind() domain.EventKind { return domain.EventUniquesCreated }

// ClassForceCreated is emitted when root creates an NFT class
type ClassForceCreated struct {
	ClassID uint32
	Owner   domain.Address
}

func (ClassForceCreated) Kind() domain.EventKind { return domain.EventUniquesForceCreated }

// ClassDestroyed is emitted when an NFT class is destroyed
type ClassDestroyed struct {
	ClassID uint32
}

func (ClassDestroyed) Kind() domain.EventKind { return domain.EventUniquesDestroyed }

// ClassFrozen is emitted by Uniques.ClassFrozen, or Uniques.CollectionFrozen when Renamed
type ClassFrozen struct {
	ClassID uint32
	Renamed bool
}

func (e ClassFrozen) Kind() domain.EventKind {
	if e.Renamed {
		return domain.EventUniquesCollectionFrozen
	}
	return domain.EventUniquesClassFrozen
}

// ClassThawed is emitted by Uniques.ClassThawed, or Uniques.CollectionThawed when Renamed
type ClassThawed struct {
	ClassID uint32
	Renamed bool
}

func (e ClassThawed) Kind() domain.EventKind {
	if e.Renamed {
		return domain.EventUniquesCollectionThawed
	}
	return domain.EventUniquesClassThawed
}

// ClassMetadataSet is emitted by Uniques.ClassMetadataSet, or Uniques.CollectionMetadataSet when Renamed
type ClassMetadataSet struct {
	ClassID  uint32
	Data     string
	IsFrozen bool
	Renamed  bool
}

func (e ClassMetadataSet) Kind() domain.EventKind {
	if e.Renamed {
		return domain.EventUniquesCollectionMetadataSet
	}
	return domain.EventUniquesClassMetadataSet
}

// ClassMetadataCleared is emitted by Uniques.ClassMetadataCleared, or Uniques.CollectionMetadataCleared when Renamed
type ClassMetadataCleared struct {
	ClassID uint32
	Renamed bool
}

func (e ClassMetadataCleared) Kind() domain.EventKind {
	if e.Renamed {
		return domain.EventUniquesCollectionMetadataCleared
	}
	return domain.EventUniquesClassMetadataCleared
}

// ClassTeamChanged is emitted when the class management team changes
type ClassTeamChanged struct {
	ClassID uint32
	Issuer  domain.Address
	Admin   domain.Address
	Freezer domain.Address
}

func (ClassTeamChanged) Kind() domain.EventKind { return domain.EventUniquesTeamChanged }

// ClassOwnerChanged is emitted when the class owner changes
type ClassOwnerChanged struct {
	ClassID  uint32
	NewOwner domain.Address
}

func (ClassOwnerChanged) Kind() domain.EventKind { return domain.EventUniquesOwnerChanged }

// ClassMaxSupplySet is emitted when a collection's max supply is fixed
type ClassMaxSupplySet struct {
	ClassID   uint32
	MaxSupply uint32
}

func (ClassMaxSupplySet) Kind() domain.EventKind { return domain.EventUniquesCollectionMaxSupplySet }

// InstanceIssued is emitted when an NFT is minted
type InstanceIssued struct {
	ClassID    uint32
	InstanceID uint32
	Owner      domain.Address
}

func (InstanceIssued) Kind() domain.EventKind { return domain.EventUniquesIssued }

// InstanceTransferred is emitted when an NFT changes owner
type InstanceTransferred struct {
	ClassID    uint32
	InstanceID uint32
	From       domain.Address
	To         domain.Address
}

func (InstanceTransferred) Kind() domain.EventKind { return domain.EventUniquesTransferred }

// InstanceBurned is emitted when an NFT is burned
type InstanceBurned struct {
	ClassID    uint32
	InstanceID uint32
	Owner      domain.Address
}

func (InstanceBurned) Kind() domain.EventKind { return domain.EventUniquesBurned }

// InstanceFrozen is emitted when a single NFT is frozen
type InstanceFrozen struct {
	ClassID    uint32
	InstanceID uint32
}

func (InstanceFrozen) Kind() domain.EventKind { return domain.EventUniquesFrozen }

// InstanceThawed is emitted when a single NFT is thawed
type InstanceThawed struct {
	ClassID    uint32
	InstanceID uint32
}

func (InstanceThawed) Kind() domain.EventKind { return domain.EventUniquesThawed }

// InstanceMetadataSet is emitted when NFT metadata is set
type InstanceMetadataSet struct {
	ClassID    uint32
	InstanceID uint32
	Data       string
	IsFrozen   bool
}

func (InstanceMetadataSet) Kind() domain.EventKind { return domain.EventUniquesMetadataSet }

// InstanceMetadataCleared is emitted when NFT metadata is removed
type InstanceMetadataCleared struct {
	ClassID    uint32
	InstanceID uint32
}

func (InstanceMetadataCleared) Kind() domain.EventKind { return domain.EventUniquesMetadataCleared }

// AttributeSet is emitted when an attribute is set on a class, or on an instance when InstanceID is present
type AttributeSet struct {
	ClassID    uint32
	InstanceID *uint32
	Key        string
	Value      string
}

func (AttributeSet) Kind() domain.EventKind { return domain.EventUniquesAttributeSet }

// AttributeCleared is emitted when an attribute is removed from a class or instance
type AttributeCleared struct {
	ClassID    uint32
	InstanceID *uint32
	Key        string
}

func (AttributeCleared) Kind() domain.EventKind { return domain.EventUniquesAttributeCleared }

// ItemPriceSet is emitted when an NFT is listed for sale
type ItemPriceSet struct {
	ClassID          uint32
	InstanceID       uint32
	Price            *big.Int
	WhitelistedBuyer domain.Address
}

func (ItemPriceSet) Kind() domain.EventKind { return domain.EventUniquesItemPriceSet }

// ItemPriceRemoved is emitted when an NFT listing is withdrawn
type ItemPriceRemoved struct {
	ClassID    uint32
	InstanceID uint32
}

func (ItemPriceRemoved) Kind() domain.EventKind { return domain.EventUniquesItemPriceRemoved }

// ItemBought is emitted when a listed NFT is sold
type ItemBought struct {
	ClassID    uint32
	InstanceID uint32
	Price      *big.Int
	Seller     domain.Address
	Buyer      domain.Address
}

func (ItemBought) Kind() domain.EventKind { return domain.EventUniquesItemBought }

// BalanceTransfer is a native token transfer
type BalanceTransfer struct {
	From   domain.Address
	To     domain.Address
	Amount *big.Int
}

func (BalanceTransfer) Kind() domain.EventKind { return domain.EventBalancesTransfer }

// BalanceDeposit is a native deposit; deposits inside a signed extrinsic carry its fee
type BalanceDeposit struct {
	Who    domain.Address
	Amount *big.Int
}

func (BalanceDeposit) Kind() domain.EventKind { return domain.EventBalancesDeposit }
