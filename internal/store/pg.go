package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/ff-uniques-indexer/internal/domain"
	"github.com/feral-file/ff-uniques-indexer/internal/logger"
	"github.com/feral-file/ff-uniques-indexer/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// Zero values fall back to the defaults of NormalizeConnectionPoolSettings.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 10
//   - MaxIdleConns: 2
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
//
// The indexer has a single writer, so the pool is smaller than a typical API service.
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns <= 0 {
		maxOpenConns = 10
	}
	if maxIdleConns <= 0 {
		maxIdleConns = 2
	}
	if connMaxLifetime <= 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime <= 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// calculateSafeBatchSize computes the batch size for bulk upserts that stays under
// PostgreSQL's limit of 65535 bind parameters per statement.
//
// Example with headroom of 1000:
//   - Account: 4 fields → (65,535 - 1,000) / 4 = 16,133 records/batch
//   - Transfer: 15 fields → (65,535 - 1,000) / 15 = 4,302 records/batch
func calculateSafeBatchSize(totalRecords int, fieldsPerRecord int) int {
	const maxParams = 65535
	const totalHeadroom = 1000 // Total parameter headroom for batch-level overhead

	availableParams := maxParams - totalHeadroom
	safeBatchSize := max(availableParams/fieldsPerRecord, 1)

	if safeBatchSize > totalRecords {
		return totalRecords
	}

	return safeBatchSize
}

// getByID loads a single row by primary key, returning nil when it does not exist
func getByID[T any](ctx context.Context, db *gorm.DB, id string) (*T, error) {
	var row T
	err := db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// upsert writes rows in parameter-safe batches, updating the given columns on id conflict
func upsert[T any](ctx context.Context, db *gorm.DB, rows []*T, fieldsPerRecord int, updateColumns ...string) error {
	if len(rows) == 0 {
		return nil
	}

	onConflict := clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
	}
	if len(updateColumns) == 0 {
		onConflict.DoNothing = true
	} else {
		onConflict.DoUpdates = clause.AssignmentColumns(updateColumns)
	}

	batchSize := calculateSafeBatchSize(len(rows), fieldsPerRecord)
	return db.WithContext(ctx).
		Clauses(onConflict).
		CreateInBatches(rows, batchSize).Error
}

// GetAccount retrieves an account by address
func (s *pgStore) GetAccount(ctx context.Context, id string) (*schema.Account, error) {
	account, err := getByID[schema.Account](ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// GetAsset retrieves a fungible asset by id
func (s *pgStore) GetAsset(ctx context.Context, id string) (*schema.Asset, error) {
	asset, err := getByID[schema.Asset](ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return asset, nil
}

// GetAssetBalance retrieves an asset balance by id
func (s *pgStore) GetAssetBalance(ctx context.Context, id string) (*schema.AssetBalance, error) {
	balance, err := getByID[schema.AssetBalance](ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get asset balance: %w", err)
	}
	return balance, nil
}

// GetUniqueClass retrieves an NFT class by id
func (s *pgStore) GetUniqueClass(ctx context.Context, id string) (*schema.UniqueClass, error) {
	class, err := getByID[schema.UniqueClass](ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get unique class: %w", err)
	}
	return class, nil
}

// GetUniqueInstance retrieves an NFT instance by id
func (s *pgStore) GetUniqueInstance(ctx context.Context, id string) (*schema.UniqueInstance, error) {
	instance, err := getByID[schema.UniqueInstance](ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get unique instance: %w", err)
	}
	return instance, nil
}

// ListInstanceIDsByClass returns the ids of every stored instance of a class
func (s *pgStore) ListInstanceIDsByClass(ctx context.Context, classID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&schema.UniqueInstance{}).
		Where("class_id = ?", classID).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list instances of class: %w", err)
	}
	return ids, nil
}

// FindTransferByExtrinsicID returns the latest transfer row emitted by an extrinsic
func (s *pgStore) FindTransferByExtrinsicID(ctx context.Context, extrinsicID string) (*schema.Transfer, error) {
	var transfer schema.Transfer
	err := s.db.WithContext(ctx).
		Where("extrinsic_id = ?", extrinsicID).
		Order("id DESC").
		First(&transfer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find transfer by extrinsic: %w", err)
	}
	return &transfer, nil
}

// FindLatestActivity returns the latest activity row matching the filter
func (s *pgStore) FindLatestActivity(ctx context.Context, filter ActivityFilter) (*schema.ActivityEvent, error) {
	query := s.db.WithContext(ctx).
		Where("instance_id = ?", filter.InstanceID).
		Where("block_number = ?", filter.BlockNumber)
	if filter.From != "" {
		query = query.Where("from_address = ?", filter.From)
	}
	if filter.To != "" {
		query = query.Where("to_address = ?", filter.To)
	}
	if len(filter.Types) > 0 {
		query = query.Where("type IN ?", filter.Types)
	}

	var event schema.ActivityEvent
	err := query.Order("id DESC").First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find activity: %w", err)
	}
	return &event, nil
}

// UpsertAccounts writes accounts
func (s *pgStore) UpsertAccounts(ctx context.Context, accounts []*schema.Account) error {
	if err := upsert(ctx, s.db, accounts, 4, "balance", "updated_at"); err != nil {
		return fmt.Errorf("failed to upsert accounts: %w", err)
	}
	return nil
}

// UpsertAssets writes fungible assets
func (s *pgStore) UpsertAssets(ctx context.Context, assets []*schema.Asset) error {
	err := upsert(ctx, s.db, assets, 15,
		"name", "symbol", "decimals", "owner", "admin", "issuer", "creator", "freezer",
		"min_balance", "total_supply", "status", "is_metadata_frozen", "updated_at")
	if err != nil {
		return fmt.Errorf("failed to upsert assets: %w", err)
	}
	return nil
}

// UpsertUniqueClasses writes NFT classes
func (s *pgStore) UpsertUniqueClasses(ctx context.Context, classes []*schema.UniqueClass) error {
	err := upsert(ctx, s.db, classes, 13,
		"owner", "admin", "issuer", "creator", "freezer", "status", "metadata",
		"attributes", "max_supply", "block_timestamp", "updated_at")
	if err != nil {
		return fmt.Errorf("failed to upsert unique classes: %w", err)
	}
	return nil
}

// UpsertAssetBalances writes asset balances
func (s *pgStore) UpsertAssetBalances(ctx context.Context, balances []*schema.AssetBalance) error {
	if err := upsert(ctx, s.db, balances, 7, "balance", "status", "updated_at"); err != nil {
		return fmt.Errorf("failed to upsert asset balances: %w", err)
	}
	return nil
}

// UpsertUniqueInstances writes NFT instances
func (s *pgStore) UpsertUniqueInstances(ctx context.Context, instances []*schema.UniqueInstance) error {
	err := upsert(ctx, s.db, instances, 11,
		"owner_id", "status", "metadata", "attributes", "price", "minted_at", "updated_at")
	if err != nil {
		return fmt.Errorf("failed to upsert unique instances: %w", err)
	}
	return nil
}

// UpsertTransfers writes fungible ledger rows
func (s *pgStore) UpsertTransfers(ctx context.Context, transfers []*schema.Transfer) error {
	if err := upsert(ctx, s.db, transfers, 14, "fee", "type", "amount"); err != nil {
		return fmt.Errorf("failed to upsert transfers: %w", err)
	}
	return nil
}

// UpsertActivityEvents writes NFT ledger rows
func (s *pgStore) UpsertActivityEvents(ctx context.Context, events []*schema.ActivityEvent) error {
	if err := upsert(ctx, s.db, events, 13, "type", "price"); err != nil {
		return fmt.Errorf("failed to upsert activity events: %w", err)
	}
	return nil
}

// UpsertAccountTransfers writes per-account sides of NFT activity
func (s *pgStore) UpsertAccountTransfers(ctx context.Context, transfers []*schema.AccountTransfer) error {
	if err := upsert(ctx, s.db, transfers, 5); err != nil {
		return fmt.Errorf("failed to upsert account transfers: %w", err)
	}
	return nil
}

// UpsertHistoricalBalances writes native balance snapshots
func (s *pgStore) UpsertHistoricalBalances(ctx context.Context, balances []*schema.HistoricalBalance) error {
	if err := upsert(ctx, s.db, balances, 6, "balance"); err != nil {
		return fmt.Errorf("failed to upsert historical balances: %w", err)
	}
	return nil
}

// GetBlockCursor retrieves the last processed block number for a chain
func (s *pgStore) GetBlockCursor(ctx context.Context, chain string) (uint64, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", blockCursorKey(chain)).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil // Return 0 if no cursor exists
		}
		return 0, fmt.Errorf("failed to get block cursor: %w", err)
	}

	blockNumber, err := strconv.ParseUint(kv.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse block cursor: %w", err)
	}

	return blockNumber, nil
}

// SetBlockCursor stores the last processed block number for a chain
func (s *pgStore) SetBlockCursor(ctx context.Context, chain string, blockNumber uint64) error {
	kv := schema.KeyValueStore{
		Key:   blockCursorKey(chain),
		Value: strconv.FormatUint(blockNumber, 10),
	}

	err := s.db.WithContext(ctx).Save(&kv).Error
	if err != nil {
		return fmt.Errorf("failed to set block cursor: %w", err)
	}

	return nil
}

// WithTransaction runs fn against a store bound to one transaction
func (s *pgStore) WithTransaction(ctx context.Context, fn func(tx Store) error) error {
	start := time.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&pgStore{db: tx})
	})
	if err != nil {
		logger.WarnCtx(ctx, "Transaction rolled back",
			zap.Error(err),
			zap.Duration("elapsed", time.Since(start)))
		return err
	}
	return nil
}

func blockCursorKey(chain string) string {
	return domain.BLOCK_CURSOR_PREFIX + chain
}
