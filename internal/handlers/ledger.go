package handlers

import (
	"math/big"

	"github.com/feral-file/ff-uniques-indexer/internal/domain"
	"github.com/feral-file/ff-uniques-indexer/internal/store/schema"
	"github.com/feral-file/ff-uniques-indexer/internal/types"
)

// newTransfer builds the fungible ledger row of the current event
func (hc *Context) newTransfer(transferType domain.TransferType, assetID *string) *schema.Transfer {
	return &schema.Transfer{
		ID:          hc.Event.ID,
		AssetID:     assetID,
		Type:        transferType,
		ExtrinsicID: hc.Event.ExtrinsicID,
		Success:     true,
		BlockNumber: hc.Block.Height,
		BlockHash:   hc.Block.Hash,
		Timestamp:   hc.Block.Timestamp,
	}
}

// newActivity builds the NFT ledger row of the current event
func (hc *Context) newActivity(transferType domain.TransferType, classID string, instanceID *string) *schema.ActivityEvent {
	return &schema.ActivityEvent{
		ID:          hc.Event.ID,
		ClassID:     types.StringPtr(classID),
		InstanceID:  instanceID,
		Type:        transferType,
		ExtrinsicID: hc.Event.ExtrinsicID,
		BlockNumber: hc.Block.Height,
		BlockHash:   hc.Block.Hash,
		Timestamp:   hc.Block.Timestamp,
	}
}

// instanceActivity builds the NFT ledger row of an event on one instance
func (hc *Context) instanceActivity(transferType domain.TransferType, instance *schema.UniqueInstance) *schema.ActivityEvent {
	return hc.newActivity(transferType, instance.ClassID, types.StringPtr(instance.ID))
}

// accountSide builds the per-account row of one side of an NFT movement
func accountSide(activity *schema.ActivityEvent, account *schema.Account, direction domain.Direction) *schema.AccountTransfer {
	return &schema.AccountTransfer{
		ID:        domain.SideID(activity.ID, direction),
		EventID:   activity.ID,
		AccountID: account.ID,
		Direction: direction,
	}
}

// historicalBalance snapshots an account balance after the current event
func (hc *Context) historicalBalance(account *schema.Account, direction domain.Direction) *schema.HistoricalBalance {
	return &schema.HistoricalBalance{
		ID:          domain.SideID(hc.Event.ID, direction),
		AccountID:   account.ID,
		Balance:     account.Balance,
		BlockNumber: hc.Block.Height,
		Timestamp:   hc.Block.Timestamp,
	}
}

// amount converts a decoded amount, treating an absent value as zero
func amount(v *big.Int) types.BigInt {
	return types.BigIntFrom(v)
}

func amountPtr(v *big.Int) *types.BigInt {
	a := amount(v)
	return &a
}
