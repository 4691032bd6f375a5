package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-uniques-indexer/internal/domain"
	"github.com/feral-file/ff-uniques-indexer/internal/store/schema"
	"github.com/feral-file/ff-uniques-indexer/internal/types"
)

const (
	testAlice = "HNZata7iMYWmk5RvZRTiAsSDhV8366zq2YGb3tLH5Upf74F"
	testBob   = "FoQJpPyadYccjavVdTWxpxU7rUEaYhfLCPwXgkfD6Zat9QP"
)

// =============================================================================
// Test Data Builders
// =============================================================================

func buildTestTransfer(id string, assetID *string, extrinsicID string, blockNum uint64) *schema.Transfer {
	amount := types.NewBigInt(100)
	return &schema.Transfer{
		ID:          id,
		AssetID:     assetID,
		Amount:      &amount,
		From:        types.StringPtr(testAlice),
		To:          types.StringPtr(testBob),
		Type:        domain.TransferTypeRegular,
		ExtrinsicID: types.StringPtr(extrinsicID),
		Success:     true,
		BlockNumber: blockNum,
		BlockHash:   "0xblockhash",
		Timestamp:   time.Now().UTC(),
	}
}

func buildTestActivity(id, classID, instanceID string, transferType domain.TransferType, blockNum uint64) *schema.ActivityEvent {
	return &schema.ActivityEvent{
		ID:          id,
		ClassID:     types.StringPtr(classID),
		InstanceID:  types.StringPtr(instanceID),
		From:        types.StringPtr(testAlice),
		To:          types.StringPtr(testBob),
		Type:        transferType,
		BlockNumber: blockNum,
		BlockHash:   "0xblockhash",
		Timestamp:   time.Now().UTC(),
	}
}

// seedClassWithInstance writes the parents every NFT ledger test needs
func seedClassWithInstance(t *testing.T, store Store, classID uint32, instanceID uint32) *schema.UniqueInstance {
	ctx := context.Background()

	require.NoError(t, store.UpsertAccounts(ctx, []*schema.Account{schema.NewAccount(testAlice), schema.NewAccount(testBob)}))

	class := schema.NewUniqueClass(domain.ClassID(classID))
	class.Owner = types.StringPtr(testAlice)
	require.NoError(t, store.UpsertUniqueClasses(ctx, []*schema.UniqueClass{class}))

	instance := schema.NewUniqueInstance(classID, instanceID)
	instance.OwnerID = types.StringPtr(testAlice)
	require.NoError(t, store.UpsertUniqueInstances(ctx, []*schema.UniqueInstance{instance}))

	return instance
}

// =============================================================================
// Tests
// =============================================================================

func testAccounts(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("missing account returns nil", func(t *testing.T) {
		account, err := store.GetAccount(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("upsert then update balance", func(t *testing.T) {
		account := schema.NewAccount(testAlice)
		account.Balance = types.MustBigInt("340282366920938463463374607431768211455")
		require.NoError(t, store.UpsertAccounts(ctx, []*schema.Account{account}))

		got, err := store.GetAccount(ctx, testAlice)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "340282366920938463463374607431768211455", got.Balance.String())

		account.Balance = types.NewBigInt(-25)
		require.NoError(t, store.UpsertAccounts(ctx, []*schema.Account{account}))

		got, err = store.GetAccount(ctx, testAlice)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "-25", got.Balance.String())
	})

	t.Run("empty upsert is a no-op", func(t *testing.T) {
		require.NoError(t, store.UpsertAccounts(ctx, nil))
	})
}

func testAssetsAndBalances(t *testing.T, store Store) {
	ctx := context.Background()

	asset := schema.NewAsset("9")
	asset.Owner = testAlice
	asset.Admin = types.StringPtr(testAlice)
	asset.Name = types.StringPtr("Tether")
	decimals := uint8(6)
	asset.Decimals = &decimals
	asset.TotalSupply = types.NewBigInt(1000)
	require.NoError(t, store.UpsertAccounts(ctx, []*schema.Account{schema.NewAccount(testAlice)}))
	require.NoError(t, store.UpsertAssets(ctx, []*schema.Asset{asset}))

	got, err := store.GetAsset(ctx, "9")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, testAlice, got.Owner)
	assert.Equal(t, "Tether", types.SafeString(got.Name))
	require.NotNil(t, got.Decimals)
	assert.Equal(t, uint8(6), *got.Decimals)
	assert.Equal(t, "1000", got.TotalSupply.String())
	assert.Equal(t, domain.StatusActive, got.Status)

	balance := schema.NewAssetBalance("9", domain.Address(testAlice))
	balance.Balance = types.NewBigInt(1000)
	balance.Status = domain.StatusFrozen
	require.NoError(t, store.UpsertAssetBalances(ctx, []*schema.AssetBalance{balance}))

	gotBalance, err := store.GetAssetBalance(ctx, "9-"+testAlice)
	require.NoError(t, err)
	require.NotNil(t, gotBalance)
	assert.Equal(t, "1000", gotBalance.Balance.String())
	assert.Equal(t, domain.StatusFrozen, gotBalance.Status)
	assert.Equal(t, "9", gotBalance.AssetID)
	assert.Equal(t, testAlice, gotBalance.AccountID)
}

func testForeignKeys(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("balance without account is rejected", func(t *testing.T) {
		asset := schema.NewAsset("77")
		asset.Owner = testAlice
		require.NoError(t, store.UpsertAssets(ctx, []*schema.Asset{asset}))

		err := store.WithTransaction(ctx, func(tx Store) error {
			return tx.UpsertAssetBalances(ctx, []*schema.AssetBalance{schema.NewAssetBalance("77", domain.Address(testBob))})
		})
		assert.Error(t, err)

		got, err := store.GetAssetBalance(ctx, "77-"+testBob)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("instance without class is rejected", func(t *testing.T) {
		err := store.WithTransaction(ctx, func(tx Store) error {
			return tx.UpsertUniqueInstances(ctx, []*schema.UniqueInstance{schema.NewUniqueInstance(404, 1)})
		})
		assert.Error(t, err)
	})

	t.Run("parents first succeeds", func(t *testing.T) {
		err := store.WithTransaction(ctx, func(tx Store) error {
			if err := tx.UpsertAccounts(ctx, []*schema.Account{schema.NewAccount(testBob)}); err != nil {
				return err
			}
			return tx.UpsertAssetBalances(ctx, []*schema.AssetBalance{schema.NewAssetBalance("77", domain.Address(testBob))})
		})
		require.NoError(t, err)

		got, err := store.GetAssetBalance(ctx, "77-"+testBob)
		require.NoError(t, err)
		assert.NotNil(t, got)
	})
}

func testUniques(t *testing.T, store Store) {
	ctx := context.Background()

	seedClassWithInstance(t, store, 7, 3)

	class, err := store.GetUniqueClass(ctx, "7")
	require.NoError(t, err)
	require.NotNil(t, class)
	assert.Empty(t, class.Attributes)

	class.Attributes = schema.SetAttribute(class.Attributes, "name", "Kusama Punks")
	maxSupply := uint32(10000)
	class.MaxSupply = &maxSupply
	require.NoError(t, store.UpsertUniqueClasses(ctx, []*schema.UniqueClass{class}))

	class, err = store.GetUniqueClass(ctx, "7")
	require.NoError(t, err)
	require.NotNil(t, class)
	assert.Equal(t, schema.Attributes{{Key: "name", Value: "Kusama Punks"}}, class.Attributes)
	require.NotNil(t, class.MaxSupply)
	assert.Equal(t, uint32(10000), *class.MaxSupply)

	second := schema.NewUniqueInstance(7, 1)
	require.NoError(t, store.UpsertUniqueInstances(ctx, []*schema.UniqueInstance{second}))

	ids, err := store.ListInstanceIDsByClass(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, []string{"7-1", "7-3"}, ids)

	ids, err = store.ListInstanceIDsByClass(ctx, "8")
	require.NoError(t, err)
	assert.Empty(t, ids)

	instance, err := store.GetUniqueInstance(ctx, "7-3")
	require.NoError(t, err)
	require.NotNil(t, instance)
	assert.Equal(t, "3", instance.InnerID)
	assert.Equal(t, "7", instance.ClassID)
	assert.Equal(t, testAlice, types.SafeString(instance.OwnerID))
	assert.True(t, instance.Price.IsZero())
}

func testTransfers(t *testing.T, store Store) {
	ctx := context.Background()

	require.NoError(t, store.UpsertTransfers(ctx, []*schema.Transfer{
		buildTestTransfer("0000000010-000001", nil, "10-1", 10),
		buildTestTransfer("0000000010-000003", nil, "10-1", 10),
		buildTestTransfer("0000000011-000000", nil, "11-2", 11),
	}))

	t.Run("latest transfer of the extrinsic", func(t *testing.T) {
		got, err := store.FindTransferByExtrinsicID(ctx, "10-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "0000000010-000003", got.ID)
	})

	t.Run("unknown extrinsic", func(t *testing.T) {
		got, err := store.FindTransferByExtrinsicID(ctx, "99-9")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("conflict updates fee only", func(t *testing.T) {
		replay := buildTestTransfer("0000000011-000000", nil, "11-2", 11)
		fee := types.NewBigInt(7)
		replay.Fee = &fee
		replay.From = types.StringPtr("someone else")
		require.NoError(t, store.UpsertTransfers(ctx, []*schema.Transfer{replay}))

		got, err := store.FindTransferByExtrinsicID(ctx, "11-2")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.NotNil(t, got.Fee)
		assert.Equal(t, "7", got.Fee.String())
		assert.Equal(t, testAlice, types.SafeString(got.From))
	})
}

func testActivities(t *testing.T, store Store) {
	ctx := context.Background()

	seedClassWithInstance(t, store, 5, 1)

	regular := buildTestActivity("0000000020-000001", "5", "5-1", domain.TransferTypeRegular, 20)
	priceSet := buildTestActivity("0000000020-000002", "5", "5-1", domain.TransferTypePriceSet, 20)
	require.NoError(t, store.UpsertActivityEvents(ctx, []*schema.ActivityEvent{regular, priceSet}))
	require.NoError(t, store.UpsertAccountTransfers(ctx, []*schema.AccountTransfer{
		{ID: domain.SideID(regular.ID, domain.DirectionFrom), EventID: regular.ID, AccountID: testAlice, Direction: domain.DirectionFrom},
		{ID: domain.SideID(regular.ID, domain.DirectionTo), EventID: regular.ID, AccountID: testBob, Direction: domain.DirectionTo},
	}))

	filter := ActivityFilter{
		InstanceID:  "5-1",
		From:        testAlice,
		To:          testBob,
		BlockNumber: 20,
		Types:       []domain.TransferType{domain.TransferTypeRegular, domain.TransferTypeBought},
	}

	got, err := store.FindLatestActivity(ctx, filter)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, regular.ID, got.ID)

	t.Run("retype keeps the row", func(t *testing.T) {
		price := types.NewBigInt(500)
		got.Type = domain.TransferTypeBought
		got.Price = &price
		require.NoError(t, store.UpsertActivityEvents(ctx, []*schema.ActivityEvent{got}))

		again, err := store.FindLatestActivity(ctx, filter)
		require.NoError(t, err)
		require.NotNil(t, again)
		assert.Equal(t, domain.TransferTypeBought, again.Type)
		require.NotNil(t, again.Price)
		assert.Equal(t, "500", again.Price.String())
	})

	t.Run("other block does not match", func(t *testing.T) {
		other := filter
		other.BlockNumber = 21
		got, err := store.FindLatestActivity(ctx, other)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func testHistoricalBalances(t *testing.T, store Store) {
	ctx := context.Background()

	require.NoError(t, store.UpsertAccounts(ctx, []*schema.Account{schema.NewAccount(testAlice)}))
	row := &schema.HistoricalBalance{
		ID:          domain.SideID("0000000030-000000", domain.DirectionFrom),
		AccountID:   testAlice,
		Balance:     types.NewBigInt(12),
		BlockNumber: 30,
		Timestamp:   time.Now().UTC(),
	}
	require.NoError(t, store.UpsertHistoricalBalances(ctx, []*schema.HistoricalBalance{row}))
	require.NoError(t, store.UpsertHistoricalBalances(ctx, []*schema.HistoricalBalance{row}))
}

func testBlockCursor(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("get non-existent cursor returns 0", func(t *testing.T) {
		cursor, err := store.GetBlockCursor(ctx, "test_chain_nonexistent")
		require.NoError(t, err)
		assert.Equal(t, uint64(0), cursor)
	})

	t.Run("set and get cursor", func(t *testing.T) {
		err := store.SetBlockCursor(ctx, "statemine", 338600)
		require.NoError(t, err)

		cursor, err := store.GetBlockCursor(ctx, "statemine")
		require.NoError(t, err)
		assert.Equal(t, uint64(338600), cursor)

		err = store.SetBlockCursor(ctx, "statemine", 338700)
		require.NoError(t, err)

		cursor, err = store.GetBlockCursor(ctx, "statemine")
		require.NoError(t, err)
		assert.Equal(t, uint64(338700), cursor)
	})
}

func testWithTransaction(t *testing.T, store Store) {
	ctx := context.Background()
	boom := errors.New("boom")

	t.Run("rollback on error", func(t *testing.T) {
		err := store.WithTransaction(ctx, func(tx Store) error {
			if err := tx.UpsertAccounts(ctx, []*schema.Account{schema.NewAccount(testBob)}); err != nil {
				return err
			}
			if err := tx.SetBlockCursor(ctx, "rollback", 5); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		account, err := store.GetAccount(ctx, testBob)
		require.NoError(t, err)
		assert.Nil(t, account)

		cursor, err := store.GetBlockCursor(ctx, "rollback")
		require.NoError(t, err)
		assert.Zero(t, cursor)
	})

	t.Run("commit on success", func(t *testing.T) {
		err := store.WithTransaction(ctx, func(tx Store) error {
			if err := tx.UpsertAccounts(ctx, []*schema.Account{schema.NewAccount(testBob)}); err != nil {
				return err
			}
			return tx.SetBlockCursor(ctx, "commit", 9)
		})
		require.NoError(t, err)

		account, err := store.GetAccount(ctx, testBob)
		require.NoError(t, err)
		assert.NotNil(t, account)

		cursor, err := store.GetBlockCursor(ctx, "commit")
		require.NoError(t, err)
		assert.Equal(t, uint64(9), cursor)
	})
}

func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"Accounts", testAccounts},
		{"AssetsAndBalances", testAssetsAndBalances},
		{"ForeignKeys", testForeignKeys},
		{"Uniques", testUniques},
		{"Transfers", testTransfers},
		{"Activities", testActivities},
		{"HistoricalBalances", testHistoricalBalances},
		{"BlockCursor", testBlockCursor},
		{"WithTransaction", testWithTransaction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
