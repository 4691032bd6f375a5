package store

import (
	"context"

	"github.com/feral-file/ff-uniques-indexer/internal/domain"
	"github.com/feral-file/ff-uniques-indexer/internal/store/schema"
)

// ActivityFilter selects the activity row an ItemBought settlement retypes
type ActivityFilter struct {
	InstanceID  string
	From        string
	To          string
	BlockNumber uint64
	Types       []domain.TransferType
}

// Store defines the interface for database operations
//
// Get* methods return nil, nil when the row does not exist.
// Upsert* methods are keyed by primary key; repeated writes of the same entity converge.
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// GetAccount retrieves an account by address
	GetAccount(ctx context.Context, id string) (*schema.Account, error)
	// GetAsset retrieves a fungible asset by id
	GetAsset(ctx context.Context, id string) (*schema.Asset, error)
	// GetAssetBalance retrieves an asset balance by id
	GetAssetBalance(ctx context.Context, id string) (*schema.AssetBalance, error)
	// GetUniqueClass retrieves an NFT class by id
	GetUniqueClass(ctx context.Context, id string) (*schema.UniqueClass, error)
	// GetUniqueInstance retrieves an NFT instance by id
	GetUniqueInstance(ctx context.Context, id string) (*schema.UniqueInstance, error)
	// ListInstanceIDsByClass returns the ids of every stored instance of a class
	ListInstanceIDsByClass(ctx context.Context, classID string) ([]string, error)
	// FindTransferByExtrinsicID returns the latest transfer row emitted by an extrinsic
	FindTransferByExtrinsicID(ctx context.Context, extrinsicID string) (*schema.Transfer, error)
	// FindLatestActivity returns the latest activity row matching the filter
	FindLatestActivity(ctx context.Context, filter ActivityFilter) (*schema.ActivityEvent, error)

	// UpsertAccounts writes accounts
	UpsertAccounts(ctx context.Context, accounts []*schema.Account) error
	// UpsertAssets writes fungible assets
	UpsertAssets(ctx context.Context, assets []*schema.Asset) error
	// UpsertUniqueClasses writes NFT classes
	UpsertUniqueClasses(ctx context.Context, classes []*schema.UniqueClass) error
	// UpsertAssetBalances writes asset balances; accounts and assets must already exist
	UpsertAssetBalances(ctx context.Context, balances []*schema.AssetBalance) error
	// UpsertUniqueInstances writes NFT instances; classes and owner accounts must already exist
	UpsertUniqueInstances(ctx context.Context, instances []*schema.UniqueInstance) error
	// UpsertTransfers writes fungible ledger rows; only fee, type and amount change on conflict
	UpsertTransfers(ctx context.Context, transfers []*schema.Transfer) error
	// UpsertActivityEvents writes NFT ledger rows; only type and price change on conflict
	UpsertActivityEvents(ctx context.Context, events []*schema.ActivityEvent) error
	// UpsertAccountTransfers writes per-account sides of NFT activity
	UpsertAccountTransfers(ctx context.Context, transfers []*schema.AccountTransfer) error
	// UpsertHistoricalBalances writes native balance snapshots
	UpsertHistoricalBalances(ctx context.Context, balances []*schema.HistoricalBalance) error

	// GetBlockCursor retrieves the last processed block number for a chain
	GetBlockCursor(ctx context.Context, chain string) (uint64, error)
	// SetBlockCursor stores the last processed block number for a chain
	SetBlockCursor(ctx context.Context, chain string, blockNumber uint64) error

	// WithTransaction runs fn against a store bound to one transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithTransaction(ctx context.Context, fn func(tx Store) error) error
}
