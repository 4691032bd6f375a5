package handlers

import (
	"github.com/feral-file/ff-uniques-indexer/internal/domain"
)

// Table maps an event kind to the handler that reconciles it
type Table map[domain.EventKind]Handler

// NewTable returns the handler table of every reconciled event kind
func NewTable() Table {
	return Table{
		domain.EventAssetsCreated:             handle(assetCreated),
		domain.EventAssetsForceCreated:        handle(assetForceCreated),
		domain.EventAssetsIssued:              handle(assetIssued),
		domain.EventAssetsTransferred:         handle(assetTransferred),
		domain.EventAssetsTransferredApproved: handle(assetTransferredApproved),
		domain.EventAssetsBurned:              handle(assetBurned),
		domain.EventAssetsFrozen:              handle(assetAccountFrozen),
		domain.EventAssetsThawed:              handle(assetAccountThawed),
		domain.EventAssetsAssetFrozen:         handle(assetFrozen),
		domain.EventAssetsAssetThawed:         handle(assetThawed),
		domain.EventAssetsOwnerChanged:        handle(assetOwnerChanged),
		domain.EventAssetsTeamChanged:         handle(assetTeamChanged),
		domain.EventAssetsMetadataSet:         handle(assetMetadataSet),
		domain.EventAssetsMetadataCleared:     handle(assetMetadataCleared),
		domain.EventAssetsDestroyed:           handle(assetDestroyed),

		domain.EventUniquesCreated:                   handle(classCreated),
		domain.EventUniquesForceCreated:              handle(classForceCreated),
		domain.EventUniquesIssued:                    handle(instanceIssued),
		domain.EventUniquesTransferred:               handle(instanceTransferred),
		domain.EventUniquesBurned:                    handle(instanceBurned),
		domain.EventUniquesDestroyed:                 handle(classDestroyed),
		domain.EventUniquesFrozen:                    handle(instanceFrozen),
		domain.EventUniquesThawed:                    handle(instanceThawed),
		domain.EventUniquesClassFrozen:               handle(classFrozen),
		domain.EventUniquesClassThawed:               handle(classThawed),
		domain.EventUniquesCollectionFrozen:          handle(classFrozen),
		domain.EventUniquesCollectionThawed:          handle(classThawed),
		domain.EventUniquesClassMetadataSet:          handle(classMetadataSet),
		domain.EventUniquesClassMetadataCleared:      handle(classMetadataCleared),
		domain.EventUniquesCollectionMetadataSet:     handle(classMetadataSet),
		domain.EventUniquesCollectionMetadataCleared: handle(classMetadataCleared),
		domain.EventUniquesMetadataSet:               handle(instanceMetadataSet),
		domain.EventUniquesMetadataCleared:           handle(instanceMetadataCleared),
		domain.EventUniquesAttributeSet:              handle(attributeSet),
		domain.EventUniquesAttributeCleared:          handle(attributeCleared),
		domain.EventUniquesTeamChanged:               handle(classTeamChanged),
		domain.EventUniquesOwnerChanged:              handle(classOwnerChanged),
		domain.EventUniquesItemPriceSet:              handle(itemPriceSet),
		domain.EventUniquesItemPriceRemoved:          handle(itemPriceRemoved),
		domain.EventUniquesItemBought:                handle(itemBought),
		domain.EventUniquesCollectionMaxSupplySet:    handle(classMaxSupplySet),

		domain.EventBalancesTransfer: handle(balanceTransfer),
		domain.EventBalancesDeposit:  handle(balanceDeposit),
	}
}

// Lookup returns the handler of a kind, if any
func (t Table) Lookup(kind domain.EventKind) (Handler, bool) {
	h, ok := t[kind]
	return h, ok
}
