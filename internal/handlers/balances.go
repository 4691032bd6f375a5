package handlers

import (
	"context"

	"github.com/feral-file/ff-uniques-indexer/internal/decoder"
	"github.com/feral-file/ff-uniques-indexer/internal/domain"
	"github.com/feral-file/ff-uniques-indexer/internal/types"
)

// tip returns the tip paid by the current event's extrinsic, zero when absent or unreadable
func (hc *Context) tip(ctx context.Context) types.BigInt {
	if types.StringNilOrEmpty(hc.Event.Tip) {
		return types.NewBigInt(0)
	}
	tip, err := types.ParseBigInt(*hc.Event.Tip)
	if err != nil || tip.Sign() < 0 {
		hc.Anomaly(ctx, AnomalyInvalidTip, "tip %q treated as 0", *hc.Event.Tip)
		return types.NewBigInt(0)
	}
	return tip
}

// balanceTransfer moves native balance; the sender also pays the tip
func balanceTransfer(ctx context.Context, hc *Context, e decoder.BalanceTransfer) error {
	if !e.From.Valid() || !e.To.Valid() {
		hc.invalidAddress(ctx, "from", "to")
		return nil
	}

	from, err := hc.Cache.GetOrCreateAccount(ctx, e.From)
	if err != nil {
		return err
	}
	to, err := hc.Cache.GetOrCreateAccount(ctx, e.To)
	if err != nil {
		return err
	}

	value := amount(e.Amount)
	from.Balance = from.Balance.Sub(value.Add(hc.tip(ctx)))
	hc.checkBalance(ctx, "account "+from.ID, from.Balance)
	to.Balance = to.Balance.Add(value)

	transfer := hc.newTransfer(domain.TransferTypeRegular, nil)
	transfer.From = e.From.Ptr()
	transfer.To = e.To.Ptr()
	transfer.Amount = amountPtr(e.Amount)

	hc.Cache.Stage(from, to, transfer,
		hc.historicalBalance(from, domain.DirectionFrom),
		hc.historicalBalance(to, domain.DirectionTo))
	return nil
}

// balanceDeposit attaches a fee deposit to the transfer of the same extrinsic
func balanceDeposit(ctx context.Context, hc *Context, e decoder.BalanceDeposit) error {
	if hc.Event.ExtrinsicID == nil {
		return nil
	}

	transfer, err := hc.Cache.FindTransferByExtrinsic(ctx, *hc.Event.ExtrinsicID)
	if err != nil {
		return err
	}
	if transfer == nil {
		return nil
	}

	transfer.Fee = amountPtr(e.Amount)
	hc.Cache.Stage(transfer)
	return nil
}
