package handlers

import (
	"context"

	"github.com/feral-file/ff-uniques-indexer/internal/decoder"
	"github.com/feral-file/ff-uniques-indexer/internal/domain"
	"github.com/feral-file/ff-uniques-indexer/internal/store/schema"
	"github.com/feral-file/ff-uniques-indexer/internal/types"
)

func assetCreated(ctx context.Context, hc *Context, e decoder.AssetCreated) error {
	if !e.Owner.Valid() {
		hc.invalidAddress(ctx, "owner")
		return nil
	}

	assetID := domain.AssetID(e.AssetID)
	asset, err := hc.Cache.GetOrCreateAsset(ctx, assetID)
	if err != nil {
		return err
	}

	asset.Creator = e.Creator.Ptr()
	asset.Owner = e.Owner.String()
	asset.Admin = e.Owner.Ptr()
	asset.Issuer = e.Owner.Ptr()
	asset.Freezer = e.Owner.Ptr()
	hc.transition(ctx, &asset.Status, domain.StatusActive, "asset "+assetID)

	minBalance, err := decoder.DecodeAssetCreateCall(hc.Event.CallArgs)
	if err != nil {
		hc.Anomaly(ctx, AnomalyInvalidCallArgs, "min balance unavailable: %v", err)
	} else if minBalance != nil {
		asset.MinBalance = amountPtr(minBalance)
	}

	transfer := hc.newTransfer(domain.TransferTypeCreated, &asset.ID)
	transfer.To = e.Owner.Ptr()

	hc.Cache.Stage(asset, transfer)
	return nil
}

func assetForceCreated(ctx context.Context, hc *Context, e decoder.AssetForceCreated) error {
	if !e.Owner.Valid() {
		hc.invalidAddress(ctx, "owner")
		return nil
	}

	assetID := domain.AssetID(e.AssetID)
	asset, err := hc.Cache.GetOrCreateAsset(ctx, assetID)
	if err != nil {
		return err
	}

	asset.Owner = e.Owner.String()
	hc.transition(ctx, &asset.Status, domain.StatusActive, "asset "+assetID)

	transfer := hc.newTransfer(domain.TransferTypeForceCreated, &asset.ID)
	transfer.To = e.Owner.Ptr()

	hc.Cache.Stage(asset, transfer)
	return nil
}

// holding returns the account and its balance of an existing asset
func holding(ctx context.Context, hc *Context, asset *schema.Asset, address domain.Address) (*schema.Account, *schema.AssetBalance, error) {
	account, err := hc.Cache.GetOrCreateAccount(ctx, address)
	if err != nil {
		return nil, nil, err
	}
	balance, err := hc.Cache.GetOrCreateAssetBalance(ctx, asset.ID, address)
	if err != nil {
		return nil, nil, err
	}
	return account, balance, nil
}

func assetIssued(ctx context.Context, hc *Context, e decoder.AssetIssued) error {
	if !e.Owner.Valid() {
		hc.invalidAddress(ctx, "owner")
		return nil
	}

	asset, err := hc.Cache.GetAsset(ctx, domain.AssetID(e.AssetID))
	if err != nil {
		return err
	}
	account, balance, err := holding(ctx, hc, asset, e.Owner)
	if err != nil {
		return err
	}

	balance.Balance = balance.Balance.Add(amount(e.Amount))
	asset.TotalSupply = asset.TotalSupply.Add(amount(e.Amount))

	transfer := hc.newTransfer(domain.TransferTypeMint, &asset.ID)
	transfer.To = e.Owner.Ptr()
	transfer.Amount = amountPtr(e.Amount)

	hc.Cache.Stage(account, asset, balance, transfer)
	return nil
}

// moveAsset debits one holding and credits another without clamping
func moveAsset(ctx context.Context, hc *Context, assetID uint32, from, to domain.Address, value types.BigInt) (*schema.Asset, error) {
	asset, err := hc.Cache.GetAsset(ctx, domain.AssetID(assetID))
	if err != nil {
		return nil, err
	}
	fromAccount, fromBalance, err := holding(ctx, hc, asset, from)
	if err != nil {
		return nil, err
	}
	toAccount, toBalance, err := holding(ctx, hc, asset, to)
	if err != nil {
		return nil, err
	}

	fromBalance.Balance = fromBalance.Balance.Sub(value)
	hc.checkBalance(ctx, "asset balance "+fromBalance.ID, fromBalance.Balance)
	toBalance.Balance = toBalance.Balance.Add(value)

	hc.Cache.Stage(fromAccount, toAccount, fromBalance, toBalance)
	return asset, nil
}

func assetTransferred(ctx context.Context, hc *Context, e decoder.AssetTransferred) error {
	if !e.From.Valid() || !e.To.Valid() {
		hc.invalidAddress(ctx, "from", "to")
		return nil
	}

	asset, err := moveAsset(ctx, hc, e.AssetID, e.From, e.To, amount(e.Amount))
	if err != nil {
		return err
	}

	transfer := hc.newTransfer(domain.TransferTypeRegular, &asset.ID)
	transfer.From = e.From.Ptr()
	transfer.To = e.To.Ptr()
	transfer.Amount = amountPtr(e.Amount)

	hc.Cache.Stage(transfer)
	return nil
}

func assetTransferredApproved(ctx context.Context, hc *Context, e decoder.AssetTransferredApproved) error {
	if !e.Owner.Valid() || !e.Destination.Valid() {
		hc.invalidAddress(ctx, "owner", "destination")
		return nil
	}

	asset, err := moveAsset(ctx, hc, e.AssetID, e.Owner, e.Destination, amount(e.Amount))
	if err != nil {
		return err
	}

	transfer := hc.newTransfer(domain.TransferTypeDelegated, &asset.ID)
	transfer.From = e.Owner.Ptr()
	transfer.To = e.Destination.Ptr()
	transfer.Delegator = e.Delegate.Ptr()
	transfer.Amount = amountPtr(e.Amount)

	hc.Cache.Stage(transfer)
	return nil
}

func assetBurned(ctx context.Context, hc *Context, e decoder.AssetBurned) error {
	if !e.Owner.Valid() {
		hc.invalidAddress(ctx, "owner")
		return nil
	}

	asset, err := hc.Cache.GetAsset(ctx, domain.AssetID(e.AssetID))
	if err != nil {
		return err
	}
	account, balance, err := holding(ctx, hc, asset, e.Owner)
	if err != nil {
		return err
	}

	balance.Balance = balance.Balance.Sub(amount(e.Amount))
	hc.checkBalance(ctx, "asset balance "+balance.ID, balance.Balance)
	asset.TotalSupply = asset.TotalSupply.Sub(amount(e.Amount))

	transfer := hc.newTransfer(domain.TransferTypeBurn, &asset.ID)
	transfer.From = e.Owner.Ptr()
	transfer.Amount = amountPtr(e.Amount)

	hc.Cache.Stage(account, asset, balance, transfer)
	return nil
}

// setHoldingStatus freezes or thaws one account's holding and records its current balance
func setHoldingStatus(ctx context.Context, hc *Context, assetID uint32, who domain.Address, status domain.Status, transferType domain.TransferType) error {
	if !who.Valid() {
		hc.invalidAddress(ctx, "who")
		return nil
	}

	asset, err := hc.Cache.GetAsset(ctx, domain.AssetID(assetID))
	if err != nil {
		return err
	}
	account, balance, err := holding(ctx, hc, asset, who)
	if err != nil {
		return err
	}

	hc.transition(ctx, &balance.Status, status, "asset balance "+balance.ID)

	transfer := hc.newTransfer(transferType, &asset.ID)
	transfer.From = who.Ptr()
	transfer.Amount = types.BigIntPtr(balance.Balance)

	hc.Cache.Stage(account, balance, transfer)
	return nil
}

func assetAccountFrozen(ctx context.Context, hc *Context, e decoder.AssetAccountFrozen) error {
	return setHoldingStatus(ctx, hc, e.AssetID, e.Who, domain.StatusFrozen, domain.TransferTypeFreeze)
}

func assetAccountThawed(ctx context.Context, hc *Context, e decoder.AssetAccountThawed) error {
	return setHoldingStatus(ctx, hc, e.AssetID, e.Who, domain.StatusActive, domain.TransferTypeThaw)
}

// updateAsset applies fn to an existing asset and records a ledger row of the given type
func updateAsset(ctx context.Context, hc *Context, assetID uint32, transferType domain.TransferType, fn func(*schema.Asset, *schema.Transfer)) error {
	asset, err := hc.Cache.GetAsset(ctx, domain.AssetID(assetID))
	if err != nil {
		return err
	}

	transfer := hc.newTransfer(transferType, &asset.ID)
	fn(asset, transfer)

	hc.Cache.Stage(asset, transfer)
	return nil
}

func assetFrozen(ctx context.Context, hc *Context, e decoder.AssetFrozen) error {
	return updateAsset(ctx, hc, e.AssetID, domain.TransferTypeFreeze, func(asset *schema.Asset, _ *schema.Transfer) {
		hc.transition(ctx, &asset.Status, domain.StatusFrozen, "asset "+asset.ID)
	})
}

func assetThawed(ctx context.Context, hc *Context, e decoder.AssetThawed) error {
	return updateAsset(ctx, hc, e.AssetID, domain.TransferTypeThaw, func(asset *schema.Asset, _ *schema.Transfer) {
		hc.transition(ctx, &asset.Status, domain.StatusActive, "asset "+asset.ID)
	})
}

func assetDestroyed(ctx context.Context, hc *Context, e decoder.AssetDestroyed) error {
	return updateAsset(ctx, hc, e.AssetID, domain.TransferTypeDestroyed, func(asset *schema.Asset, _ *schema.Transfer) {
		hc.transition(ctx, &asset.Status, domain.StatusDestroyed, "asset "+asset.ID)
	})
}

func assetOwnerChanged(ctx context.Context, hc *Context, e decoder.AssetOwnerChanged) error {
	if !e.Owner.Valid() {
		hc.invalidAddress(ctx, "owner")
		return nil
	}

	return updateAsset(ctx, hc, e.AssetID, domain.TransferTypeOwnerChanged, func(asset *schema.Asset, transfer *schema.Transfer) {
		asset.Owner = e.Owner.String()
		transfer.To = e.Owner.Ptr()
	})
}

func assetTeamChanged(ctx context.Context, hc *Context, e decoder.AssetTeamChanged) error {
	return updateAsset(ctx, hc, e.AssetID, domain.TransferTypeTeamChanged, func(asset *schema.Asset, _ *schema.Transfer) {
		// an unusable address clears the field
		asset.Issuer = e.Issuer.Ptr()
		asset.Admin = e.Admin.Ptr()
		asset.Freezer = e.Freezer.Ptr()
	})
}

func assetMetadataSet(ctx context.Context, hc *Context, e decoder.AssetMetadataSet) error {
	return updateAsset(ctx, hc, e.AssetID, domain.TransferTypeMetadataSet, func(asset *schema.Asset, _ *schema.Transfer) {
		decimals := e.Decimals
		asset.Name = types.StringPtr(e.Name)
		asset.Symbol = types.StringPtr(e.Symbol)
		asset.Decimals = &decimals
		asset.IsMetadataFrozen = e.IsFrozen
	})
}

func assetMetadataCleared(ctx context.Context, hc *Context, e decoder.AssetMetadataCleared) error {
	return updateAsset(ctx, hc, e.AssetID, domain.TransferTypeMetadataClear, func(asset *schema.Asset, _ *schema.Transfer) {
		asset.Name = nil
		asset.Symbol = nil
		asset.Decimals = nil
		asset.IsMetadataFrozen = false
	})
}
