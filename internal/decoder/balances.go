package decoder

import (
	"github.com/feral-file/ff-uniques-indexer/internal/domain"
)

func registerBalances(d *Decoder) {
	d.register(domain.EventBalancesTransfer, fungibleVersions,
		[]string{"from", "to", "amount"},
		func(r *fieldReader) Event {
			return BalanceTransfer{
				From:   r.address("from"),
				To:     r.address("to"),
				Amount: r.amount("amount"),
			}
		})

	d.register(domain.EventBalancesDeposit, fungibleVersions,
		[]string{"who", "amount"},
		func(r *fieldReader) Event {
			return BalanceDeposit{Who: r.address("who"), Amount: r.amount("amount")}
		})
}
