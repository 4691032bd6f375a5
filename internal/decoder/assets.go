package decoder

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/feral-file/ff-uniques-indexer/internal/domain"
)

func registerAssets(d *Decoder) {
	d.register(domain.EventAssetsCreated, fungibleVersions,
		[]string{"assetId", "creator", "owner"},
		func(r *fieldReader) Event {
			return AssetCreated{
				AssetID: r.u32("assetId"),
				Creator: r.address("creator"),
				Owner:   r.address("owner"),
			}
		})

	d.register(domain.EventAssetsForceCreated, fungibleVersions,
		[]string{"assetId", "owner"},
		func(r *fieldReader) Event {
			return AssetForceCreated{
				AssetID: r.u32("assetId"),
				Owner:   r.address("owner"),
			}
		})

	d.register(domain.EventAssetsIssued, fungibleVersions,
		[]string{"assetId", "owner", "totalSupply"},
		func(r *fieldReader) Event {
			return AssetIssued{
				AssetID: r.u32("assetId"),
				Owner:   r.address("owner"),
				Amount:  r.amount("totalSupply"),
			}
		})

	d.register(domain.EventAssetsTransferred, fungibleVersions,
		[]string{"assetId", "from", "to", "amount"},
		func(r *fieldReader) Event {
			return AssetTransferred{
				AssetID: r.u32("assetId"),
				From:    r.address("from"),
				To:      r.address("to"),
				Amount:  r.amount("amount"),
			}
		})

	d.register(domain.EventAssetsTransferredApproved, fungibleVersions,
		[]string{"assetId", "owner", "delegate", "destination", "amount"},
		func(r *fieldReader) Event {
			return AssetTransferredApproved{
				AssetID:     r.u32("assetId"),
				Owner:       r.address("owner"),
				Delegate:    r.address("delegate"),
				Destination: r.address("destination"),
				Amount:      r.amount("amount"),
			}
		})

	d.register(domain.EventAssetsBurned, fungibleVersions,
		[]string{"assetId", "owner", "balance"},
		func(r *fieldReader) Event {
			return AssetBurned{
				AssetID: r.u32("assetId"),
				Owner:   r.address("owner"),
				Amount:  r.amount("balance"),
			}
		})

	d.register(domain.EventAssetsFrozen, fungibleVersions,
		[]string{"assetId", "who"},
		func(r *fieldReader) Event {
			return AssetAccountFrozen{AssetID: r.u32("assetId"), Who: r.address("who")}
		})

	d.register(domain.EventAssetsThawed, fungibleVersions,
		[]string{"assetId", "who"},
		func(r *fieldReader) Event {
			return AssetAccountThawed{AssetID: r.u32("assetId"), Who: r.address("who")}
		})

	d.register(domain.EventAssetsAssetFrozen, fungibleVersions,
		[]string{"assetId"},
		func(r *fieldReader) Event {
			return AssetFrozen{AssetID: r.u32("assetId")}
		})

	d.register(domain.EventAssetsAssetThawed, fungibleVersions,
		[]string{"assetId"},
		func(r *fieldReader) Event {
			return AssetThawed{AssetID: r.u32("assetId")}
		})

	d.register(domain.EventAssetsOwnerChanged, fungibleVersions,
		[]string{"assetId", "owner"},
		func(r *fieldReader) Event {
			return AssetOwnerChanged{AssetID: r.u32("assetId"), Owner: r.address("owner")}
		})

	d.register(domain.EventAssetsTeamChanged, fungibleVersions,
		[]string{"assetId", "issuer", "admin", "freezer"},
		func(r *fieldReader) Event {
			return AssetTeamChanged{
				AssetID: r.u32("assetId"),
				Issuer:  r.address("issuer"),
				Admin:   r.address("admin"),
				Freezer: r.address("freezer"),
			}
		})

	d.register(domain.EventAssetsMetadataSet, fungibleVersions,
		[]string{"assetId", "name", "symbol", "decimals", "isFrozen"},
		func(r *fieldReader) Event {
			return AssetMetadataSet{
				AssetID:  r.u32("assetId"),
				Name:     r.bytes("name"),
				Symbol:   r.bytes("symbol"),
				Decimals: r.u8("decimals"),
				IsFrozen: r.boolean("isFrozen"),
			}
		})

	d.register(domain.EventAssetsMetadataCleared, fungibleVersions,
		[]string{"assetId"},
		func(r *fieldReader) Event {
			return AssetMetadataCleared{AssetID: r.u32("assetId")}
		})

	d.register(domain.EventAssetsDestroyed, fungibleVersions,
		[]string{"assetId"},
		func(r *fieldReader) Event {
			return AssetDestroyed{AssetID: r.u32("assetId")}
		})
}

// createCall is the argument shape of Assets.create
type createCall struct {
	MinBalance      json.RawMessage `json:"minBalance"`
	MinBalanceSnake json.RawMessage `json:"min_balance"`
}

// batchCall is the argument shape of a utility batch wrapping Assets.create
type batchCall struct {
	Calls []struct {
		Pallet string `json:"__kind"`
		Value  struct {
			Call string `json:"__kind"`
			createCall
		} `json:"value"`
	} `json:"calls"`
}

// DecodeAssetCreateCall extracts the minimum balance from the arguments of the call that
// emitted Assets.Created. The call is either Assets.create itself or a batch containing it.
// It returns nil when the arguments carry no minimum balance.
func DecodeAssetCreateCall(args json.RawMessage) (*big.Int, error) {
	if isNull(args) {
		return nil, nil
	}

	var direct createCall
	if err := json.Unmarshal(args, &direct); err != nil {
		return nil, fmt.Errorf("%w: create call args: %v", domain.ErrMalformedPayload, err)
	}
	if minBalance, err := parseMinBalance(direct); minBalance != nil || err != nil {
		return minBalance, err
	}

	var batch batchCall
	if err := json.Unmarshal(args, &batch); err != nil {
		return nil, fmt.Errorf("%w: create call args: %v", domain.ErrMalformedPayload, err)
	}
	for _, call := range batch.Calls {
		if call.Pallet == string(domain.PalletAssets) && call.Value.Call == "create" {
			return parseMinBalance(call.Value.createCall)
		}
	}

	return nil, nil
}

func parseMinBalance(call createCall) (*big.Int, error) {
	value := call.MinBalance
	if isNull(value) {
		value = call.MinBalanceSnake
	}
	if isNull(value) {
		return nil, nil
	}

	r := &fieldReader{values: map[string]json.RawMessage{"minBalance": value}}
	minBalance := r.amount("minBalance")
	if err := r.Err(); err != nil {
		return nil, err
	}
	return minBalance, nil
}
