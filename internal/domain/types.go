package domain

import "strings"

// Pallet represents the runtime module that emitted an event
type Pallet string

const (
	PalletAssets   Pallet = "Assets"
	PalletUniques  Pallet = "Uniques"
	PalletBalances Pallet = "Balances"
)

// EventKind represents the fully qualified event name, e.g. "Uniques.Transferred"
type EventKind string

const (
	// Fungible asset events
	EventAssetsCreated             EventKind = "Assets.Created"
	EventAssetsForceCreated        EventKind = "Assets.ForceCreated"
	EventAssetsIssued              EventKind = "Assets.Issued"
	EventAssetsTransferred         EventKind = "Assets.Transferred"
	EventAssetsTransferredApproved EventKind = "Assets.TransferredApproved"
	EventAssetsBurned              EventKind = "Assets.Burned"
	EventAssetsFrozen              EventKind = "Assets.Frozen"
	EventAssetsThawed              EventKind = "Assets.Thawed"
	EventAssetsAssetFrozen         EventKind = "Assets.AssetFrozen"
	EventAssetsAssetThawed         EventKind = "Assets.AssetThawed"
	EventAssetsOwnerChanged        EventKind = "Assets.OwnerChanged"
	EventAssetsTeamChanged         EventKind = "Assets.TeamChanged"
	EventAssetsMetadataSet         EventKind = "Assets.MetadataSet"
	EventAssetsMetadataCleared     EventKind = "Assets.MetadataCleared"
	EventAssetsDestroyed           EventKind = "Assets.Destroyed"

	// NFT collection/item events
	EventUniquesCreated                   EventKind = "Uniques.Created"
	EventUniquesForceCreated              EventKind = "Uniques.ForceCreated"
	EventUniquesIssued                    EventKind = "Uniques.Issued"
	EventUniquesTransferred               EventKind = "Uniques.Transferred"
	EventUniquesBurned                    EventKind = "Uniques.Burned"
	EventUniquesDestroyed                 EventKind = "Uniques.Destroyed"
	EventUniquesFrozen                    EventKind = "Uniques.Frozen"
	EventUniquesThawed                    EventKind = "Uniques.Thawed"
	EventUniquesClassFrozen               EventKind = "Uniques.ClassFrozen"
	EventUniquesClassThawed               EventKind = "Uniques.ClassThawed"
	EventUniquesCollectionFrozen          EventKind = "Uniques.CollectionFrozen"
	EventUniquesCollectionThawed          EventKind = "Uniques.CollectionThawed"
	EventUniquesClassMetadataSet          EventKind = "Uniques.ClassMetadataSet"
	EventUniquesClassMetadataCleared      EventKind = "Uniques.ClassMetadataCleared"
	EventUniquesCollectionMetadataSet     EventKind = "Uniques.CollectionMetadataSet"
	EventUniquesCollectionMetadataCleared EventKind = "Uniques.CollectionMetadataCleared"
	EventUniquesMetadataSet               EventKind = "Uniques.MetadataSet"
	EventUniquesMetadataCleared           EventKind = "Uniques.MetadataCleared"
	EventUniquesAttributeSet              EventKind = "Uniques.AttributeSet"
	EventUniquesAttributeCleared          EventKind = "Uniques.AttributeCleared"
	EventUniquesTeamChanged               EventKind = "Uniques.TeamChanged"
	EventUniquesOwnerChanged              EventKind = "Uniques.OwnerChanged"
	EventUniquesItemPriceSet              EventKind = "Uniques.ItemPriceSet"
	EventUniquesItemPriceRemoved          EventKind = "Uniques.ItemPriceRemoved"
	EventUniquesItemBought                EventKind = "Uniques.ItemBought"
	EventUniquesCollectionMaxSupplySet    EventKind = "Uniques.CollectionMaxSupplySet"

	// Native balance events
	EventBalancesTransfer EventKind = "Balances.Transfer"
	EventBalancesDeposit  EventKind = "Balances.Deposit"
)

// Pallet returns the pallet part of the event kind
func (k EventKind) Pallet() Pallet {
	pallet, _, _ := strings.Cut(string(k), ".")
	return Pallet(pallet)
}

// String returns the string representation of the event kind
func (k EventKind) String() string {
	return string(k)
}

// SchemaVersion is the runtime spec version whose event layout a payload follows
type SchemaVersion uint32

const (
	// SchemaV1 encodes event arguments as a positional tuple
	SchemaV1 SchemaVersion = 1
	// SchemaV700 encodes event arguments as named fields (class/instance)
	SchemaV700 SchemaVersion = 700
	// SchemaV9230 renames class/instance to collection/item
	SchemaV9230 SchemaVersion = 9230
	// SchemaV9270 adds the marketplace events, keeping the collection/item naming
	SchemaV9270 SchemaVersion = 9270
)

// Status represents the lifecycle state of an asset, class, instance or asset balance
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusFrozen    Status = "FROZEN"
	StatusListed    Status = "LISTED"
	StatusDestroyed Status = "DESTROYED"
)

// IsValidStatus checks if a status is one of the known lifecycle states
func IsValidStatus(status Status) bool {
	return status == StatusActive ||
		status == StatusFrozen ||
		status == StatusListed ||
		status == StatusDestroyed
}

// IsTerminal reports whether no event can move an entity out of this status
func (s Status) IsTerminal() bool {
	return s == StatusDestroyed
}

// TransferType is the closed set of ledger row types
type TransferType string

const (
	TransferTypeMint           TransferType = "MINT"
	TransferTypeBurn           TransferType = "BURN"
	TransferTypeRegular        TransferType = "REGULAR"
	TransferTypeDelegated      TransferType = "DELEGATED"
	TransferTypeFreeze         TransferType = "FREEZE"
	TransferTypeThaw           TransferType = "THAW"
	TransferTypeMetadataSet    TransferType = "METADATA_SET"
	TransferTypeMetadataClear  TransferType = "METADATA_CLEAR"
	TransferTypeAttributeSet   TransferType = "ATTRIBUTE_SET"
	TransferTypeAttributeClear TransferType = "ATTRIBUTE_CLEAR"
	TransferTypeOwnerChanged   TransferType = "OWNER_CHANGED"
	TransferTypeTeamChanged    TransferType = "TEAM_CHANGED"
	TransferTypePriceSet       TransferType = "PRICE_SET"
	TransferTypePriceRemoved   TransferType = "PRICE_REMOVED"
	TransferTypeBought         TransferType = "BOUGHT"
	TransferTypeCreated        TransferType = "CREATED"
	TransferTypeForceCreated   TransferType = "FORCE_CREATED"
	TransferTypeDestroyed      TransferType = "DESTROYED"
	TransferTypeMaxSupplySet   TransferType = "MAX_SUPPLY_SET"
)

var transferTypes = map[TransferType]struct{}{
	TransferTypeMint:           {},
	TransferTypeBurn:           {},
	TransferTypeRegular:        {},
	TransferTypeDelegated:      {},
	TransferTypeFreeze:         {},
	TransferTypeThaw:           {},
	TransferTypeMetadataSet:    {},
	TransferTypeMetadataClear:  {},
	TransferTypeAttributeSet:   {},
	TransferTypeAttributeClear: {},
	TransferTypeOwnerChanged:   {},
	TransferTypeTeamChanged:    {},
	TransferTypePriceSet:       {},
	TransferTypePriceRemoved:   {},
	TransferTypeBought:         {},
	TransferTypeCreated:        {},
	TransferTypeForceCreated:   {},
	TransferTypeDestroyed:      {},
	TransferTypeMaxSupplySet:   {},
}

// IsValidTransferType checks if a ledger type belongs to the closed enumeration
func IsValidTransferType(t TransferType) bool {
	_, ok := transferTypes[t]
	return ok
}

// Direction marks which side of an activity an account row describes
type Direction string

const (
	DirectionFrom Direction = "FROM"
	DirectionTo   Direction = "TO"
)
