package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-uniques-indexer/internal/cache"
	"github.com/feral-file/ff-uniques-indexer/internal/decoder"
	"github.com/feral-file/ff-uniques-indexer/internal/domain"
	"github.com/feral-file/ff-uniques-indexer/internal/handlers"
	"github.com/feral-file/ff-uniques-indexer/internal/logger"
	"github.com/feral-file/ff-uniques-indexer/internal/store"
	"github.com/feral-file/ff-uniques-indexer/internal/store/schema"
	"github.com/feral-file/ff-uniques-indexer/internal/types"
)

const (
	alice domain.Address = "HNZata7iMYWmk5RvZRTiAsSDhV8366zq2YGb3tLH5Upf74F"
	bob   domain.Address = "FoQJpPyadYccjavVdTWxpxU7rUEaYhfLCPwXgkfD6Zat9QP"
	carol domain.Address = "J4Bhn4BqvdJFEjzzDdcYpZSbYo5ytMNEAXgjqebWXzaYzLi"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// harness applies decoded events the way the batch driver does, one block at a time
type harness struct {
	t     *testing.T
	ctx   context.Context
	store *store.MemoryStore
	cache *cache.Cache
	hc    *handlers.Context
	table handlers.Table
	block domain.BlockHeader
	index uint32
}

func newHarness(t *testing.T) *harness {
	return newHarnessOn(t, store.NewMemoryStore())
}

func newHarnessOn(t *testing.T, st *store.MemoryStore) *harness {
	c := cache.New(st)
	return &harness{
		t:     t,
		ctx:   context.Background(),
		store: st,
		cache: c,
		hc:    handlers.NewContext(c),
		table: handlers.NewTable(),
		block: domain.BlockHeader{Height: 100, Hash: "0x0100", Timestamp: time.Unix(1700000000, 0).UTC()},
	}
}

func (h *harness) nextBlock() {
	h.block.Height++
	h.block.Hash = "0x" + domain.EventID(h.block.Height, 0)
	h.block.Timestamp = h.block.Timestamp.Add(12 * time.Second)
	h.index = 0
}

// event applies ev and returns its id, failing the test on error
func (h *harness) event(ev decoder.Event, opts ...func(*domain.Event)) string {
	id, err := h.try(ev, opts...)
	require.NoError(h.t, err)
	return id
}

func (h *harness) try(ev decoder.Event, opts ...func(*domain.Event)) (string, error) {
	raw := domain.Event{Index: h.index, Kind: ev.Kind(), Version: domain.SchemaV700}
	raw.EnsureID(h.block.Height)
	h.index++
	for _, opt := range opts {
		opt(&raw)
	}

	handler, ok := h.table.Lookup(ev.Kind())
	require.True(h.t, ok, "no handler for %s", ev.Kind())

	h.hc.At(h.block, raw)
	return raw.ID, handler(h.ctx, h.hc, ev)
}

func (h *harness) flush() {
	require.NoError(h.t, h.cache.Flush(h.ctx, h.store))
}

func (h *harness) anomalies(reason string) []handlers.Anomaly {
	var out []handlers.Anomaly
	for _, a := range h.hc.Anomalies() {
		if a.Reason == reason {
			out = append(out, a)
		}
	}
	return out
}

func withExtrinsic(id string) func(*domain.Event) {
	return func(e *domain.Event) { e.ExtrinsicID = types.StringPtr(id) }
}

func withTip(tip string) func(*domain.Event) {
	return func(e *domain.Event) { e.Tip = types.StringPtr(tip) }
}

func withCallArgs(args string) func(*domain.Event) {
	return func(e *domain.Event) { e.CallArgs = json.RawMessage(args) }
}

func (h *harness) class(id string) *schema.UniqueClass {
	class, err := h.store.GetUniqueClass(h.ctx, id)
	require.NoError(h.t, err)
	require.NotNil(h.t, class, "class %s", id)
	return class
}

func (h *harness) instance(id string) *schema.UniqueInstance {
	instance, err := h.store.GetUniqueInstance(h.ctx, id)
	require.NoError(h.t, err)
	require.NotNil(h.t, instance, "instance %s", id)
	return instance
}

func (h *harness) asset(id string) *schema.Asset {
	asset, err := h.store.GetAsset(h.ctx, id)
	require.NoError(h.t, err)
	require.NotNil(h.t, asset, "asset %s", id)
	return asset
}

func (h *harness) account(address domain.Address) *schema.Account {
	account, err := h.store.GetAccount(h.ctx, address.String())
	require.NoError(h.t, err)
	require.NotNil(h.t, account, "account %s", address)
	return account
}

func (h *harness) balance(assetID string, address domain.Address) string {
	balance, err := h.store.GetAssetBalance(h.ctx, domain.AssetBalanceID(assetID, address))
	require.NoError(h.t, err)
	require.NotNil(h.t, balance, "balance of %s in %s", address, assetID)
	return balance.Balance.String()
}

func TestHandlers_TableCoversEveryDecodedKind(t *testing.T) {
	table := handlers.NewTable()
	for _, kind := range decoder.New(domain.DEFAULT_SS58_PREFIX).Kinds() {
		_, ok := table.Lookup(kind)
		assert.True(t, ok, "no handler for %s", kind)
	}
	assert.Len(t, table, len(decoder.New(domain.DEFAULT_SS58_PREFIX).Kinds()))
}

func TestHandlers_RejectsMismatchedEventType(t *testing.T) {
	h := newHarness(t)
	handler, ok := h.table.Lookup(domain.EventUniquesIssued)
	require.True(t, ok)

	err := handler(h.ctx, h.hc, decoder.ClassDestroyed{ClassID: 7})
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestUniques_CreateIssueTransfer(t *testing.T) {
	h := newHarness(t)

	// class created
	createdID := h.event(decoder.ClassCreated{ClassID: 7, Creator: alice, Owner: alice})
	h.flush()

	class := h.class("7")
	assert.Equal(t, alice.String(), types.SafeString(class.Owner))
	assert.Equal(t, alice.String(), types.SafeString(class.Admin))
	assert.Equal(t, alice.String(), types.SafeString(class.Freezer))
	assert.Equal(t, domain.StatusActive, class.Status)
	require.NotNil(t, class.BlockTimestamp)
	assert.True(t, class.BlockTimestamp.Equal(h.block.Timestamp))

	created, ok := h.store.Activity(createdID)
	require.True(t, ok)
	assert.Equal(t, domain.TransferTypeCreated, created.Type)
	assert.Equal(t, alice.String(), types.SafeString(created.To))
	assert.Nil(t, created.InstanceID)

	// item issued on the active class
	h.nextBlock()
	mintID := h.event(decoder.InstanceIssued{ClassID: 7, InstanceID: 3, Owner: bob})
	h.flush()

	instance := h.instance("7-3")
	assert.Equal(t, bob.String(), types.SafeString(instance.OwnerID))
	assert.Equal(t, domain.StatusActive, instance.Status)
	assert.True(t, instance.Price.IsZero())
	require.NotNil(t, instance.MintedAt)

	mint, ok := h.store.Activity(mintID)
	require.True(t, ok)
	assert.Equal(t, domain.TransferTypeMint, mint.Type)
	assert.Equal(t, bob.String(), types.SafeString(mint.To))
	side, ok := h.store.AccountTransfer(domain.SideID(mintID, domain.DirectionTo))
	require.True(t, ok)
	assert.Equal(t, bob.String(), side.AccountID)

	// listed, then transferred
	h.nextBlock()
	h.event(decoder.ItemPriceSet{ClassID: 7, InstanceID: 3, Price: big.NewInt(500)})
	listed, err := h.cache.GetUniqueInstance(h.ctx, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusListed, listed.Status)
	assert.Equal(t, "500", listed.Price.String())

	transferID := h.event(decoder.InstanceTransferred{ClassID: 7, InstanceID: 3, From: bob, To: carol})
	h.flush()

	instance = h.instance("7-3")
	assert.Equal(t, carol.String(), types.SafeString(instance.OwnerID))
	assert.True(t, instance.Price.IsZero())
	assert.Equal(t, domain.StatusActive, instance.Status)

	transfer, ok := h.store.Activity(transferID)
	require.True(t, ok)
	assert.Equal(t, domain.TransferTypeRegular, transfer.Type)
	assert.Equal(t, bob.String(), types.SafeString(transfer.From))
	assert.Equal(t, carol.String(), types.SafeString(transfer.To))

	from, ok := h.store.AccountTransfer(domain.SideID(transferID, domain.DirectionFrom))
	require.True(t, ok)
	assert.Equal(t, bob.String(), from.AccountID)
	to, ok := h.store.AccountTransfer(domain.SideID(transferID, domain.DirectionTo))
	require.True(t, ok)
	assert.Equal(t, carol.String(), to.AccountID)
}

func TestUniques_IssueRequiresClass(t *testing.T) {
	h := newHarness(t)

	_, err := h.try(decoder.InstanceIssued{ClassID: 7, InstanceID: 3, Owner: bob})
	assert.ErrorIs(t, err, domain.ErrMissingParent)

	_, err = h.try(decoder.InstanceTransferred{ClassID: 7, InstanceID: 3, From: bob, To: carol})
	assert.ErrorIs(t, err, domain.ErrMissingParent)
}

func TestUniques_DestroyedIsTerminal(t *testing.T) {
	h := newHarness(t)
	h.event(decoder.ClassCreated{ClassID: 7, Creator: alice, Owner: alice})
	h.event(decoder.InstanceIssued{ClassID: 7, InstanceID: 1, Owner: bob})

	burnID := h.event(decoder.InstanceBurned{ClassID: 7, InstanceID: 1, Owner: bob})
	thawID := h.event(decoder.InstanceThawed{ClassID: 7, InstanceID: 1})
	h.event(decoder.ItemPriceSet{ClassID: 7, InstanceID: 1, Price: big.NewInt(10)})
	h.flush()

	instance := h.instance("7-1")
	assert.Equal(t, domain.StatusDestroyed, instance.Status)
	assert.Len(t, h.anomalies(handlers.AnomalyDestroyedEntity), 2)

	burn, ok := h.store.Activity(burnID)
	require.True(t, ok)
	assert.Equal(t, domain.TransferTypeBurn, burn.Type)
	assert.Equal(t, bob.String(), types.SafeString(burn.From))
	_, ok = h.store.AccountTransfer(domain.SideID(burnID, domain.DirectionFrom))
	assert.True(t, ok)

	// the ledger still records the refused change
	_, ok = h.store.Activity(thawID)
	assert.True(t, ok)
}

func TestUniques_StatusStaysInClosedSet(t *testing.T) {
	h := newHarness(t)
	h.event(decoder.ClassCreated{ClassID: 1, Creator: alice, Owner: alice})
	h.event(decoder.InstanceIssued{ClassID: 1, InstanceID: 1, Owner: alice})

	sequence := []decoder.Event{
		decoder.InstanceFrozen{ClassID: 1, InstanceID: 1},
		decoder.InstanceThawed{ClassID: 1, InstanceID: 1},
		decoder.ItemPriceSet{ClassID: 1, InstanceID: 1, Price: big.NewInt(3)},
		decoder.ItemPriceRemoved{ClassID: 1, InstanceID: 1},
		decoder.InstanceMetadataSet{ClassID: 1, InstanceID: 1, Data: "ipfs://a", IsFrozen: true},
		decoder.InstanceMetadataSet{ClassID: 1, InstanceID: 1, Data: "ipfs://b"},
		decoder.InstanceTransferred{ClassID: 1, InstanceID: 1, From: alice, To: bob},
		decoder.InstanceBurned{ClassID: 1, InstanceID: 1, Owner: bob},
		decoder.InstanceFrozen{ClassID: 1, InstanceID: 1},
	}
	for _, ev := range sequence {
		h.event(ev)
		instance, err := h.cache.GetUniqueInstance(h.ctx, 1, 1)
		require.NoError(t, err)
		assert.True(t, domain.IsValidStatus(instance.Status), "status %s after %s", instance.Status, ev.Kind())
	}

	h.flush()
	assert.Equal(t, domain.StatusDestroyed, h.instance("1-1").Status)
}

func TestUniques_ClassDestroyedCascades(t *testing.T) {
	h := newHarness(t)
	h.event(decoder.ClassCreated{ClassID: 7, Creator: alice, Owner: alice})
	h.event(decoder.InstanceIssued{ClassID: 7, InstanceID: 1, Owner: bob})
	h.flush()

	// one stored instance and one issued in this batch
	h = newHarnessOn(t, h.store)
	h.nextBlock()
	h.event(decoder.InstanceIssued{ClassID: 7, InstanceID: 2, Owner: carol})
	destroyedID := h.event(decoder.ClassDestroyed{ClassID: 7})
	h.flush()

	assert.Equal(t, domain.StatusDestroyed, h.class("7").Status)
	assert.Equal(t, domain.StatusDestroyed, h.instance("7-1").Status)
	assert.Equal(t, domain.StatusDestroyed, h.instance("7-2").Status)

	destroyed, ok := h.store.Activity(destroyedID)
	require.True(t, ok)
	assert.Equal(t, domain.TransferTypeDestroyed, destroyed.Type)
}

func TestUniques_ClassLifecycle(t *testing.T) {
	h := newHarness(t)
	h.event(decoder.ClassForceCreated{ClassID: 5, Owner: alice})

	h.event(decoder.ClassFrozen{ClassID: 5, Renamed: true})
	class, err := h.cache.GetUniqueClass(h.ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFrozen, class.Status)

	h.event(decoder.ClassThawed{ClassID: 5})
	assert.Equal(t, domain.StatusActive, class.Status)

	h.event(decoder.ClassMetadataSet{ClassID: 5, Data: "ipfs://class", IsFrozen: true})
	assert.Equal(t, domain.StatusFrozen, class.Status)
	assert.Equal(t, "ipfs://class", types.SafeString(class.Metadata))

	h.event(decoder.ClassMetadataCleared{ClassID: 5, Renamed: true})
	assert.Nil(t, class.Metadata)

	h.event(decoder.ClassTeamChanged{ClassID: 5, Issuer: bob, Admin: domain.NoAddress, Freezer: carol})
	assert.Equal(t, bob.String(), types.SafeString(class.Issuer))
	assert.Nil(t, class.Admin)
	assert.Equal(t, carol.String(), types.SafeString(class.Freezer))

	ownerID := h.event(decoder.ClassOwnerChanged{ClassID: 5, NewOwner: bob})
	assert.Equal(t, bob.String(), types.SafeString(class.Owner))

	h.event(decoder.ClassMaxSupplySet{ClassID: 5, MaxSupply: 100})
	require.NotNil(t, class.MaxSupply)
	assert.Equal(t, uint32(100), *class.MaxSupply)

	h.flush()

	stored := h.class("5")
	assert.Equal(t, bob.String(), types.SafeString(stored.Owner))
	owner, ok := h.store.Activity(ownerID)
	require.True(t, ok)
	assert.Equal(t, domain.TransferTypeOwnerChanged, owner.Type)
	assert.Equal(t, alice.String(), types.SafeString(owner.From))
	assert.Equal(t, bob.String(), types.SafeString(owner.To))
	h.account(bob)
}

func TestUniques_Attributes(t *testing.T) {
	h := newHarness(t)
	h.event(decoder.ClassCreated{ClassID: 7, Creator: alice, Owner: alice})
	h.event(decoder.InstanceIssued{ClassID: 7, InstanceID: 3, Owner: bob})

	item := types.Uint32Ptr(3)
	h.event(decoder.AttributeSet{ClassID: 7, Key: "artist", Value: "anon"})
	h.event(decoder.AttributeSet{ClassID: 7, InstanceID: item, Key: "color", Value: "red"})
	h.event(decoder.AttributeSet{ClassID: 7, InstanceID: item, Key: "size", Value: "L"})
	setID := h.event(decoder.AttributeSet{ClassID: 7, InstanceID: item, Key: "color", Value: "blue"})
	clearID := h.event(decoder.AttributeCleared{ClassID: 7, InstanceID: item, Key: "size"})
	h.flush()

	assert.Equal(t, schema.Attributes{{Key: "artist", Value: "anon"}}, h.class("7").Attributes)
	assert.Equal(t, schema.Attributes{{Key: "color", Value: "blue"}}, h.instance("7-3").Attributes)

	set, ok := h.store.Activity(setID)
	require.True(t, ok)
	assert.Equal(t, domain.TransferTypeAttributeSet, set.Type)
	assert.JSONEq(t, `{"key":"color","value":"blue"}`, types.SafeString(set.Meta))

	cleared, ok := h.store.Activity(clearID)
	require.True(t, ok)
	assert.Equal(t, domain.TransferTypeAttributeClear, cleared.Type)
	assert.Equal(t, "size", types.SafeString(cleared.Meta))
	assert.Equal(t, "7-3", types.SafeString(cleared.InstanceID))
}

func TestUniques_AttributeOnMissingInstance(t *testing.T) {
	h := newHarness(t)
	h.event(decoder.ClassCreated{ClassID: 7, Creator: alice, Owner: alice})

	_, err := h.try(decoder.AttributeSet{ClassID: 7, InstanceID: types.Uint32Ptr(9), Key: "k", Value: "v"})
	assert.ErrorIs(t, err, domain.ErrMissingParent)
}

func TestUniques_MetadataOnMissingInstanceIsSkipped(t *testing.T) {
	h := newHarness(t)
	h.event(decoder.ClassCreated{ClassID: 7, Creator: alice, Owner: alice})

	h.event(decoder.InstanceMetadataSet{ClassID: 7, InstanceID: 9, Data: "ipfs://x"})
	h.event(decoder.InstanceMetadataCleared{ClassID: 7, InstanceID: 9})
	h.flush()

	assert.Len(t, h.anomalies(handlers.AnomalyMissingInstance), 2)
	assert.Equal(t, 1, h.store.Count(store.TableActivityEvents))
	assert.Equal(t, 0, h.store.Count(store.TableUniqueInstances))
}

func TestUniques_ItemBoughtRetypesTransfer(t *testing.T) {
	h := newHarness(t)
	h.event(decoder.ClassCreated{ClassID: 7, Creator: alice, Owner: alice})
	h.event(decoder.InstanceIssued{ClassID: 7, InstanceID: 3, Owner: bob})
	h.event(decoder.ItemPriceSet{ClassID: 7, InstanceID: 3, Price: big.NewInt(500)})
	h.flush()

	h = newHarnessOn(t, h.store)
	h.nextBlock()
	transferID := h.event(decoder.InstanceTransferred{ClassID: 7, InstanceID: 3, From: bob, To: carol})
	h.event(decoder.ItemBought{ClassID: 7, InstanceID: 3, Price: big.NewInt(500), Seller: bob, Buyer: carol})
	h.flush()

	bought, ok := h.store.Activity(transferID)
	require.True(t, ok)
	assert.Equal(t, domain.TransferTypeBought, bought.Type)
	require.NotNil(t, bought.Price)
	assert.Equal(t, "500", bought.Price.String())

	instance := h.instance("7-3")
	assert.Equal(t, domain.StatusActive, instance.Status)
	assert.True(t, instance.Price.IsZero())
	assert.Equal(t, carol.String(), types.SafeString(instance.OwnerID))
}

func TestUniques_ItemBoughtWithoutTransfer(t *testing.T) {
	h := newHarness(t)
	h.event(decoder.ClassCreated{ClassID: 7, Creator: alice, Owner: alice})
	h.event(decoder.InstanceIssued{ClassID: 7, InstanceID: 3, Owner: bob})

	_, err := h.try(decoder.ItemBought{ClassID: 7, InstanceID: 3, Price: big.NewInt(1), Seller: bob, Buyer: carol})
	assert.ErrorIs(t, err, domain.ErrLedgerRowNotFound)
}

func TestAssets_TransferProceedsOnUnderflow(t *testing.T) {
	h := newHarness(t)
	h.event(decoder.AssetCreated{AssetID: 9, Creator: alice, Owner: alice})
	h.event(decoder.AssetIssued{AssetID: 9, Owner: alice, Amount: big.NewInt(40)})
	transferID := h.event(decoder.AssetTransferred{AssetID: 9, From: alice, To: bob, Amount: big.NewInt(100)})
	h.flush()

	assert.Equal(t, "-60", h.balance("9", alice))
	assert.Equal(t, "100", h.balance("9", bob))
	assert.Len(t, h.anomalies(handlers.AnomalyNegativeBalance), 1)

	transfer, ok := h.store.Transfer(transferID)
	require.True(t, ok)
	assert.Equal(t, domain.TransferTypeRegular, transfer.Type)
	assert.Equal(t, "9", types.SafeString(transfer.AssetID))
	require.NotNil(t, transfer.Amount)
	assert.Equal(t, "100", transfer.Amount.String())
	assert.Equal(t, h.block.Height, transfer.BlockNumber)
	assert.True(t, transfer.Success)
}

func TestAssets_Lifecycle(t *testing.T) {
	h := newHarness(t)

	createdID := h.event(decoder.AssetCreated{AssetID: 9, Creator: alice, Owner: bob}, withCallArgs(`{"minBalance":"10"}`))
	h.event(decoder.AssetMetadataSet{AssetID: 9, Name: "Token", Symbol: "TKN", Decimals: 12, IsFrozen: true})
	h.event(decoder.AssetIssued{AssetID: 9, Owner: bob, Amount: big.NewInt(1000)})
	h.event(decoder.AssetBurned{AssetID: 9, Owner: bob, Amount: big.NewInt(300)})
	freezeID := h.event(decoder.AssetAccountFrozen{AssetID: 9, Who: bob})
	h.event(decoder.AssetTeamChanged{AssetID: 9, Issuer: carol, Admin: carol, Freezer: domain.NoAddress})
	h.event(decoder.AssetOwnerChanged{AssetID: 9, Owner: carol})
	h.event(decoder.AssetFrozen{AssetID: 9})
	h.flush()

	asset := h.asset("9")
	assert.Equal(t, carol.String(), asset.Owner)
	assert.Equal(t, alice.String(), types.SafeString(asset.Creator))
	assert.Equal(t, carol.String(), types.SafeString(asset.Issuer))
	assert.Nil(t, asset.Freezer)
	assert.Equal(t, "700", asset.TotalSupply.String())
	require.NotNil(t, asset.MinBalance)
	assert.Equal(t, "10", asset.MinBalance.String())
	assert.Equal(t, "TKN", types.SafeString(asset.Symbol))
	require.NotNil(t, asset.Decimals)
	assert.Equal(t, uint8(12), *asset.Decimals)
	assert.True(t, asset.IsMetadataFrozen)
	assert.Equal(t, domain.StatusFrozen, asset.Status)

	assert.Equal(t, "700", h.balance("9", bob))
	balances := h.store.AssetBalancesOf("9")
	require.Len(t, balances, 1)
	assert.Equal(t, domain.StatusFrozen, balances[0].Status)

	created, ok := h.store.Transfer(createdID)
	require.True(t, ok)
	assert.Equal(t, domain.TransferTypeCreated, created.Type)
	assert.Equal(t, bob.String(), types.SafeString(created.To))

	freeze, ok := h.store.Transfer(freezeID)
	require.True(t, ok)
	assert.Equal(t, domain.TransferTypeFreeze, freeze.Type)
	require.NotNil(t, freeze.Amount)
	assert.Equal(t, "700", freeze.Amount.String())

	h.nextBlock()
	h.event(decoder.AssetMetadataCleared{AssetID: 9})
	h.event(decoder.AssetDestroyed{AssetID: 9})
	h.event(decoder.AssetThawed{AssetID: 9})
	h.flush()

	asset = h.asset("9")
	assert.Nil(t, asset.Symbol)
	assert.False(t, asset.IsMetadataFrozen)
	assert.Equal(t, domain.StatusDestroyed, asset.Status)
	assert.Len(t, h.anomalies(handlers.AnomalyDestroyedEntity), 1)
}

func TestAssets_CreateWithUnreadableCallArgs(t *testing.T) {
	h := newHarness(t)
	h.event(decoder.AssetCreated{AssetID: 1, Creator: alice, Owner: alice}, withCallArgs(`{"minBalance":"ten"}`))
	h.flush()

	assert.Nil(t, h.asset("1").MinBalance)
	assert.Len(t, h.anomalies(handlers.AnomalyInvalidCallArgs), 1)
}

func TestAssets_TransferredApproved(t *testing.T) {
	h := newHarness(t)
	h.event(decoder.AssetForceCreated{AssetID: 2, Owner: alice})
	h.event(decoder.AssetIssued{AssetID: 2, Owner: alice, Amount: big.NewInt(50)})
	id := h.event(decoder.AssetTransferredApproved{AssetID: 2, Owner: alice, Delegate: bob, Destination: carol, Amount: big.NewInt(20)})
	h.flush()

	assert.Equal(t, "30", h.balance("2", alice))
	assert.Equal(t, "20", h.balance("2", carol))

	transfer, ok := h.store.Transfer(id)
	require.True(t, ok)
	assert.Equal(t, domain.TransferTypeDelegated, transfer.Type)
	assert.Equal(t, bob.String(), types.SafeString(transfer.Delegator))
	assert.Equal(t, carol.String(), types.SafeString(transfer.To))
}

func TestAssets_IssueRequiresAsset(t *testing.T) {
	h := newHarness(t)
	_, err := h.try(decoder.AssetIssued{AssetID: 4, Owner: alice, Amount: big.NewInt(1)})
	assert.ErrorIs(t, err, domain.ErrMissingParent)
}

func TestAssets_InvalidAddressSkipsEvent(t *testing.T) {
	h := newHarness(t)
	h.event(decoder.AssetCreated{AssetID: 9, Creator: alice, Owner: alice})
	h.event(decoder.AssetIssued{AssetID: 9, Owner: alice, Amount: big.NewInt(10)})
	h.flush()

	h.event(decoder.AssetTransferred{AssetID: 9, From: alice, To: domain.NoAddress, Amount: big.NewInt(5)})
	h.event(decoder.AssetCreated{AssetID: 10, Creator: alice, Owner: domain.NoAddress})

	for table, n := range h.cache.Staged() {
		assert.Zero(t, n, table)
	}
	assert.Len(t, h.anomalies(handlers.AnomalyInvalidAddress), 2)
	assert.Equal(t, "10", h.balance("9", alice))
}

func TestAssets_ConservationOverClosedTransfers(t *testing.T) {
	h := newHarness(t)
	h.event(decoder.AssetCreated{AssetID: 3, Creator: alice, Owner: alice})
	h.event(decoder.AssetIssued{AssetID: 3, Owner: alice, Amount: big.NewInt(1000)})

	moves := []struct {
		from, to domain.Address
		amount   int64
	}{
		{alice, bob, 400},
		{bob, carol, 150},
		{carol, alice, 50},
		{alice, carol, 900},
		{bob, bob, 10},
	}
	for _, m := range moves {
		h.event(decoder.AssetTransferred{AssetID: 3, From: m.from, To: m.to, Amount: big.NewInt(m.amount)})
	}
	h.flush()

	sum := types.NewBigInt(0)
	for _, balance := range h.store.AssetBalancesOf("3") {
		sum = sum.Add(balance.Balance)
	}
	assert.Equal(t, "1000", sum.String())
	assert.Equal(t, "1000", h.asset("3").TotalSupply.String())
}

func TestBalances_TransferChargesTip(t *testing.T) {
	h := newHarness(t)
	id := h.event(decoder.BalanceTransfer{From: alice, To: bob, Amount: big.NewInt(10)}, withTip("5"), withExtrinsic("100-1"))
	h.flush()

	assert.Equal(t, "-15", h.account(alice).Balance.String())
	assert.Equal(t, "10", h.account(bob).Balance.String())

	from, ok := h.store.HistoricalBalance(domain.SideID(id, domain.DirectionFrom))
	require.True(t, ok)
	assert.Equal(t, "-15", from.Balance.String())
	to, ok := h.store.HistoricalBalance(domain.SideID(id, domain.DirectionTo))
	require.True(t, ok)
	assert.Equal(t, "10", to.Balance.String())

	transfer, ok := h.store.Transfer(id)
	require.True(t, ok)
	assert.Nil(t, transfer.AssetID)
	assert.Equal(t, "100-1", types.SafeString(transfer.ExtrinsicID))
}

func TestBalances_InvalidTipCountsAsZero(t *testing.T) {
	h := newHarness(t)
	h.event(decoder.BalanceTransfer{From: alice, To: bob, Amount: big.NewInt(10)}, withTip("0x05"))

	account, err := h.cache.GetOrCreateAccount(h.ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "-10", account.Balance.String())
	assert.Len(t, h.anomalies(handlers.AnomalyInvalidTip), 1)
}

func TestBalances_DepositAttachesFee(t *testing.T) {
	t.Run("staged transfer", func(t *testing.T) {
		h := newHarness(t)
		id := h.event(decoder.BalanceTransfer{From: alice, To: bob, Amount: big.NewInt(10)}, withExtrinsic("100-1"))
		h.event(decoder.BalanceDeposit{Who: carol, Amount: big.NewInt(3)}, withExtrinsic("100-1"))
		h.flush()

		transfer, ok := h.store.Transfer(id)
		require.True(t, ok)
		require.NotNil(t, transfer.Fee)
		assert.Equal(t, "3", transfer.Fee.String())
	})

	t.Run("stored transfer", func(t *testing.T) {
		h := newHarness(t)
		h.event(decoder.AssetCreated{AssetID: 9, Creator: alice, Owner: alice})
		h.event(decoder.AssetIssued{AssetID: 9, Owner: alice, Amount: big.NewInt(10)})
		id := h.event(decoder.AssetTransferred{AssetID: 9, From: alice, To: bob, Amount: big.NewInt(4)}, withExtrinsic("100-7"))
		h.flush()

		h = newHarnessOn(t, h.store)
		h.event(decoder.BalanceDeposit{Who: carol, Amount: big.NewInt(2)}, withExtrinsic("100-7"))
		h.flush()

		transfer, ok := h.store.Transfer(id)
		require.True(t, ok)
		require.NotNil(t, transfer.Fee)
		assert.Equal(t, "2", transfer.Fee.String())
		assert.Equal(t, domain.TransferTypeRegular, transfer.Type)
	})

	t.Run("no matching transfer", func(t *testing.T) {
		h := newHarness(t)
		h.event(decoder.BalanceDeposit{Who: carol, Amount: big.NewInt(2)}, withExtrinsic("100-9"))
		h.event(decoder.BalanceDeposit{Who: carol, Amount: big.NewInt(2)})
		h.flush()

		assert.Equal(t, 0, h.store.Count(store.TableTransfers))
		assert.Empty(t, h.hc.Anomalies())
	})
}

func TestHandlers_FlushWritesParentsFirst(t *testing.T) {
	h := newHarness(t)
	h.event(decoder.AssetCreated{AssetID: 9, Creator: alice, Owner: alice})
	h.event(decoder.AssetIssued{AssetID: 9, Owner: bob, Amount: big.NewInt(5)})
	h.event(decoder.ClassCreated{ClassID: 7, Creator: alice, Owner: alice})
	h.event(decoder.InstanceIssued{ClassID: 7, InstanceID: 1, Owner: carol})
	h.flush()

	assert.Equal(t, []string{
		store.TableAccounts,
		store.TableAssets,
		store.TableUniqueClasses,
		store.TableAssetBalances,
		store.TableUniqueInstances,
		store.TableTransfers,
		store.TableActivityEvents,
		store.TableAccountTransfers,
	}, h.store.Writes())
}

// fixture is a batch touching every pallet
func fixture(h *harness) {
	h.event(decoder.AssetCreated{AssetID: 9, Creator: alice, Owner: alice})
	h.event(decoder.AssetIssued{AssetID: 9, Owner: alice, Amount: big.NewInt(100)})
	h.event(decoder.AssetTransferred{AssetID: 9, From: alice, To: bob, Amount: big.NewInt(30)}, withExtrinsic("1"))
	h.event(decoder.BalanceDeposit{Who: carol, Amount: big.NewInt(1)}, withExtrinsic("1"))
	h.nextBlock()
	h.event(decoder.ClassCreated{ClassID: 7, Creator: alice, Owner: alice})
	h.event(decoder.InstanceIssued{ClassID: 7, InstanceID: 1, Owner: alice})
	h.event(decoder.AttributeSet{ClassID: 7, InstanceID: types.Uint32Ptr(1), Key: "k", Value: "v"})
	h.event(decoder.InstanceTransferred{ClassID: 7, InstanceID: 1, From: alice, To: bob})
	h.event(decoder.BalanceTransfer{From: bob, To: carol, Amount: big.NewInt(7)}, withTip("1"))
	h.flush()
}

func TestHandlers_ReplayOnFreshStoresIsDeterministic(t *testing.T) {
	first := newHarness(t)
	fixture(first)
	second := newHarness(t)
	fixture(second)

	for _, table := range []string{
		store.TableAccounts, store.TableAssets, store.TableAssetBalances,
		store.TableUniqueClasses, store.TableUniqueInstances, store.TableTransfers,
		store.TableActivityEvents, store.TableAccountTransfers, store.TableHistoricalBalances,
	} {
		assert.Equal(t, first.store.Count(table), second.store.Count(table), table)
	}
	for _, address := range []domain.Address{alice, bob, carol} {
		assert.Equal(t, first.account(address).Balance.String(), second.account(address).Balance.String())
	}
	assert.Equal(t, first.balance("9", alice), second.balance("9", alice))
	assert.Equal(t, first.balance("9", bob), second.balance("9", bob))
	assert.Equal(t, first.instance("7-1").OwnerID, second.instance("7-1").OwnerID)
	assert.Equal(t, first.instance("7-1").Attributes, second.instance("7-1").Attributes)
}

func TestHandlers_ReplayedNFTBatchConverges(t *testing.T) {
	h := newHarness(t)
	run := func() {
		h.event(decoder.ClassCreated{ClassID: 7, Creator: alice, Owner: alice})
		h.event(decoder.InstanceIssued{ClassID: 7, InstanceID: 1, Owner: alice})
		h.event(decoder.AttributeSet{ClassID: 7, InstanceID: types.Uint32Ptr(1), Key: "k", Value: "v"})
		h.event(decoder.InstanceTransferred{ClassID: 7, InstanceID: 1, From: alice, To: bob})
		h.flush()
	}

	run()
	activities := h.store.Count(store.TableActivityEvents)
	sides := h.store.Count(store.TableAccountTransfers)

	h = newHarnessOn(t, h.store)
	run()

	assert.Equal(t, activities, h.store.Count(store.TableActivityEvents))
	assert.Equal(t, sides, h.store.Count(store.TableAccountTransfers))
	instance := h.instance("7-1")
	assert.Equal(t, bob.String(), types.SafeString(instance.OwnerID))
	assert.Equal(t, schema.Attributes{{Key: "k", Value: "v"}}, instance.Attributes)
}

func TestHandlers_StoreFailureIsFatal(t *testing.T) {
	h := newHarness(t)
	h.event(decoder.AssetCreated{AssetID: 9, Creator: alice, Owner: alice})
	h.store.FailWrites(store.TableTransfers, errors.New("disk full"))

	err := h.cache.Flush(h.ctx, h.store)
	var flushErr *cache.FlushError
	require.ErrorAs(t, err, &flushErr)
	assert.Equal(t, store.TableTransfers, flushErr.Kind)
}
