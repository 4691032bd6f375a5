package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/feral-file/ff-uniques-indexer/internal/store/schema"
)

// ErrForeignKeyViolation is returned by the in-memory store when a row references a missing parent
var ErrForeignKeyViolation = errors.New("foreign key violation")

// Table names used by MemoryStore.Writes and MemoryStore.FailWrites
const (
	TableAccounts           = "accounts"
	TableAssets             = "assets"
	TableAssetBalances      = "asset_balances"
	TableUniqueClasses      = "unique_classes"
	TableUniqueInstances    = "unique_instances"
	TableTransfers          = "transfers"
	TableActivityEvents     = "activity_events"
	TableAccountTransfers   = "account_transfers"
	TableHistoricalBalances = "historical_balances"
)

type memoryData struct {
	accounts           map[string]schema.Account
	assets             map[string]schema.Asset
	assetBalances      map[string]schema.AssetBalance
	classes            map[string]schema.UniqueClass
	instances          map[string]schema.UniqueInstance
	transfers          map[string]schema.Transfer
	activities         map[string]schema.ActivityEvent
	accountTransfers   map[string]schema.AccountTransfer
	historicalBalances map[string]schema.HistoricalBalance
	keyValues          map[string]string
}

func newMemoryData() *memoryData {
	return &memoryData{
		accounts:           map[string]schema.Account{},
		assets:             map[string]schema.Asset{},
		assetBalances:      map[string]schema.AssetBalance{},
		classes:            map[string]schema.UniqueClass{},
		instances:          map[string]schema.UniqueInstance{},
		transfers:          map[string]schema.Transfer{},
		activities:         map[string]schema.ActivityEvent{},
		accountTransfers:   map[string]schema.AccountTransfer{},
		historicalBalances: map[string]schema.HistoricalBalance{},
		keyValues:          map[string]string{},
	}
}

func (d *memoryData) clone() *memoryData {
	return &memoryData{
		accounts:           maps.Clone(d.accounts),
		assets:             maps.Clone(d.assets),
		assetBalances:      maps.Clone(d.assetBalances),
		classes:            maps.Clone(d.classes),
		instances:          maps.Clone(d.instances),
		transfers:          maps.Clone(d.transfers),
		activities:         maps.Clone(d.activities),
		accountTransfers:   maps.Clone(d.accountTransfers),
		historicalBalances: maps.Clone(d.historicalBalances),
		keyValues:          maps.Clone(d.keyValues),
	}
}

// MemoryStore is a Store kept in process memory.
// It enforces the same foreign keys as the PostgreSQL schema and backs the
// processor and handler tests.
type MemoryStore struct {
	txMu sync.Mutex // serializes transactions
	mu   sync.RWMutex
	data *memoryData

	writes   []string
	failures map[string]error
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:     newMemoryData(),
		failures: map[string]error{},
	}
}

// FailWrites makes every later write to table return err; a nil err clears the failure
func (s *MemoryStore) FailWrites(table string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, table)
		return
	}
	s.failures[table] = err
}

// Writes returns the table names of every committed non-empty upsert, in call order
func (s *MemoryStore) Writes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.writes)
}

// Count returns the number of rows stored in a table
func (s *MemoryStore) Count(table string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch table {
	case TableAccounts:
		return len(s.data.accounts)
	case TableAssets:
		return len(s.data.assets)
	case TableAssetBalances:
		return len(s.data.assetBalances)
	case TableUniqueClasses:
		return len(s.data.classes)
	case TableUniqueInstances:
		return len(s.data.instances)
	case TableTransfers:
		return len(s.data.transfers)
	case TableActivityEvents:
		return len(s.data.activities)
	case TableAccountTransfers:
		return len(s.data.accountTransfers)
	case TableHistoricalBalances:
		return len(s.data.historicalBalances)
	default:
		return 0
	}
}

func (s *MemoryStore) beginWrite(table string, n int) error {
	if err := s.failures[table]; err != nil {
		return err
	}
	if n > 0 {
		s.writes = append(s.writes, table)
	}
	return nil
}

func cloneAttributes(attrs schema.Attributes) schema.Attributes {
	if attrs == nil {
		return schema.Attributes{}
	}
	return slices.Clone(attrs)
}

func touch(createdAt *time.Time, updatedAt *time.Time, existing time.Time, found bool) {
	now := time.Now()
	if found {
		*createdAt = existing
	} else if createdAt.IsZero() {
		*createdAt = now
	}
	if updatedAt != nil {
		*updatedAt = now
	}
}

// GetAccount retrieves an account by address
func (s *MemoryStore) GetAccount(_ context.Context, id string) (*schema.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.data.accounts[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

// GetAsset retrieves a fungible asset by id
func (s *MemoryStore) GetAsset(_ context.Context, id string) (*schema.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.data.assets[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

// GetAssetBalance retrieves an asset balance by id
func (s *MemoryStore) GetAssetBalance(_ context.Context, id string) (*schema.AssetBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.data.assetBalances[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

// GetUniqueClass retrieves an NFT class by id
func (s *MemoryStore) GetUniqueClass(_ context.Context, id string) (*schema.UniqueClass, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.data.classes[id]
	if !ok {
		return nil, nil
	}
	row.Attributes = cloneAttributes(row.Attributes)
	return &row, nil
}

// GetUniqueInstance retrieves an NFT instance by id
func (s *MemoryStore) GetUniqueInstance(_ context.Context, id string) (*schema.UniqueInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.data.instances[id]
	if !ok {
		return nil, nil
	}
	row.Attributes = cloneAttributes(row.Attributes)
	return &row, nil
}

// ListInstanceIDsByClass returns the ids of every stored instance of a class
func (s *MemoryStore) ListInstanceIDsByClass(_ context.Context, classID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for id, instance := range s.data.instances {
		if instance.ClassID == classID {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// FindTransferByExtrinsicID returns the latest transfer row emitted by an extrinsic
func (s *MemoryStore) FindTransferByExtrinsicID(_ context.Context, extrinsicID string) (*schema.Transfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *schema.Transfer
	for _, transfer := range s.data.transfers {
		if transfer.ExtrinsicID == nil || *transfer.ExtrinsicID != extrinsicID {
			continue
		}
		if found == nil || transfer.ID > found.ID {
			row := transfer
			found = &row
		}
	}
	return found, nil
}

// FindLatestActivity returns the latest activity row matching the filter
func (s *MemoryStore) FindLatestActivity(_ context.Context, filter ActivityFilter) (*schema.ActivityEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *schema.ActivityEvent
	for _, event := range s.data.activities {
		if !MatchActivity(&event, filter) {
			continue
		}
		if found == nil || event.ID > found.ID {
			row := event
			found = &row
		}
	}
	return found, nil
}

// MatchActivity reports whether an activity row satisfies the filter
func MatchActivity(event *schema.ActivityEvent, filter ActivityFilter) bool {
	if event.InstanceID == nil || *event.InstanceID != filter.InstanceID {
		return false
	}
	if event.BlockNumber != filter.BlockNumber {
		return false
	}
	if filter.From != "" && (event.From == nil || *event.From != filter.From) {
		return false
	}
	if filter.To != "" && (event.To == nil || *event.To != filter.To) {
		return false
	}
	if len(filter.Types) > 0 && !slices.Contains(filter.Types, event.Type) {
		return false
	}
	return true
}

// UpsertAccounts writes accounts
func (s *MemoryStore) UpsertAccounts(_ context.Context, accounts []*schema.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.beginWrite(TableAccounts, len(accounts)); err != nil {
		return fmt.Errorf("failed to upsert accounts: %w", err)
	}
	for _, account := range accounts {
		row := *account
		existing, found := s.data.accounts[row.ID]
		touch(&row.CreatedAt, &row.UpdatedAt, existing.CreatedAt, found)
		s.data.accounts[row.ID] = row
	}
	return nil
}

// UpsertAssets writes fungible assets
func (s *MemoryStore) UpsertAssets(_ context.Context, assets []*schema.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.beginWrite(TableAssets, len(assets)); err != nil {
		return fmt.Errorf("failed to upsert assets: %w", err)
	}
	for _, asset := range assets {
		row := *asset
		existing, found := s.data.assets[row.ID]
		touch(&row.CreatedAt, &row.UpdatedAt, existing.CreatedAt, found)
		s.data.assets[row.ID] = row
	}
	return nil
}

// UpsertUniqueClasses writes NFT classes
func (s *MemoryStore) UpsertUniqueClasses(_ context.Context, classes []*schema.UniqueClass) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.beginWrite(TableUniqueClasses, len(classes)); err != nil {
		return fmt.Errorf("failed to upsert unique classes: %w", err)
	}
	for _, class := range classes {
		row := *class
		row.Attributes = cloneAttributes(row.Attributes)
		existing, found := s.data.classes[row.ID]
		touch(&row.CreatedAt, &row.UpdatedAt, existing.CreatedAt, found)
		s.data.classes[row.ID] = row
	}
	return nil
}

// UpsertAssetBalances writes asset balances
func (s *MemoryStore) UpsertAssetBalances(_ context.Context, balances []*schema.AssetBalance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.beginWrite(TableAssetBalances, len(balances)); err != nil {
		return fmt.Errorf("failed to upsert asset balances: %w", err)
	}
	for _, balance := range balances {
		if _, ok := s.data.assets[balance.AssetID]; !ok {
			return fmt.Errorf("failed to upsert asset balances: %w: asset %s", ErrForeignKeyViolation, balance.AssetID)
		}
		if _, ok := s.data.accounts[balance.AccountID]; !ok {
			return fmt.Errorf("failed to upsert asset balances: %w: account %s", ErrForeignKeyViolation, balance.AccountID)
		}
	}
	for _, balance := range balances {
		row := *balance
		existing, found := s.data.assetBalances[row.ID]
		touch(&row.CreatedAt, &row.UpdatedAt, existing.CreatedAt, found)
		s.data.assetBalances[row.ID] = row
	}
	return nil
}

// UpsertUniqueInstances writes NFT instances
func (s *MemoryStore) UpsertUniqueInstances(_ context.Context, instances []*schema.UniqueInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.beginWrite(TableUniqueInstances, len(instances)); err != nil {
		return fmt.Errorf("failed to upsert unique instances: %w", err)
	}
	for _, instance := range instances {
		if _, ok := s.data.classes[instance.ClassID]; !ok {
			return fmt.Errorf("failed to upsert unique instances: %w: class %s", ErrForeignKeyViolation, instance.ClassID)
		}
		if instance.OwnerID != nil {
			if _, ok := s.data.accounts[*instance.OwnerID]; !ok {
				return fmt.Errorf("failed to upsert unique instances: %w: account %s", ErrForeignKeyViolation, *instance.OwnerID)
			}
		}
	}
	for _, instance := range instances {
		row := *instance
		row.Attributes = cloneAttributes(row.Attributes)
		existing, found := s.data.instances[row.ID]
		touch(&row.CreatedAt, &row.UpdatedAt, existing.CreatedAt, found)
		s.data.instances[row.ID] = row
	}
	return nil
}

// UpsertTransfers writes fungible ledger rows; only fee, type and amount change on conflict
func (s *MemoryStore) UpsertTransfers(_ context.Context, transfers []*schema.Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.beginWrite(TableTransfers, len(transfers)); err != nil {
		return fmt.Errorf("failed to upsert transfers: %w", err)
	}
	for _, transfer := range transfers {
		if transfer.AssetID != nil {
			if _, ok := s.data.assets[*transfer.AssetID]; !ok {
				return fmt.Errorf("failed to upsert transfers: %w: asset %s", ErrForeignKeyViolation, *transfer.AssetID)
			}
		}
	}
	for _, transfer := range transfers {
		row := *transfer
		if existing, found := s.data.transfers[row.ID]; found {
			existing.Fee = row.Fee
			existing.Type = row.Type
			existing.Amount = row.Amount
			row = existing
		} else {
			touch(&row.CreatedAt, nil, time.Time{}, false)
		}
		s.data.transfers[row.ID] = row
	}
	return nil
}

// UpsertActivityEvents writes NFT ledger rows; only type and price change on conflict
func (s *MemoryStore) UpsertActivityEvents(_ context.Context, events []*schema.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.beginWrite(TableActivityEvents, len(events)); err != nil {
		return fmt.Errorf("failed to upsert activity events: %w", err)
	}
	for _, event := range events {
		if event.ClassID != nil {
			if _, ok := s.data.classes[*event.ClassID]; !ok {
				return fmt.Errorf("failed to upsert activity events: %w: class %s", ErrForeignKeyViolation, *event.ClassID)
			}
		}
		if event.InstanceID != nil {
			if _, ok := s.data.instances[*event.InstanceID]; !ok {
				return fmt.Errorf("failed to upsert activity events: %w: instance %s", ErrForeignKeyViolation, *event.InstanceID)
			}
		}
	}
	for _, event := range events {
		row := *event
		if existing, found := s.data.activities[row.ID]; found {
			existing.Type = row.Type
			existing.Price = row.Price
			row = existing
		} else {
			touch(&row.CreatedAt, nil, time.Time{}, false)
		}
		s.data.activities[row.ID] = row
	}
	return nil
}

// UpsertAccountTransfers writes per-account sides of NFT activity
func (s *MemoryStore) UpsertAccountTransfers(_ context.Context, transfers []*schema.AccountTransfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.beginWrite(TableAccountTransfers, len(transfers)); err != nil {
		return fmt.Errorf("failed to upsert account transfers: %w", err)
	}
	for _, transfer := range transfers {
		if _, ok := s.data.activities[transfer.EventID]; !ok {
			return fmt.Errorf("failed to upsert account transfers: %w: event %s", ErrForeignKeyViolation, transfer.EventID)
		}
		if _, ok := s.data.accounts[transfer.AccountID]; !ok {
			return fmt.Errorf("failed to upsert account transfers: %w: account %s", ErrForeignKeyViolation, transfer.AccountID)
		}
	}
	for _, transfer := range transfers {
		if _, found := s.data.accountTransfers[transfer.ID]; found {
			continue
		}
		row := *transfer
		touch(&row.CreatedAt, nil, time.Time{}, false)
		s.data.accountTransfers[row.ID] = row
	}
	return nil
}

// UpsertHistoricalBalances writes native balance snapshots
func (s *MemoryStore) UpsertHistoricalBalances(_ context.Context, balances []*schema.HistoricalBalance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.beginWrite(TableHistoricalBalances, len(balances)); err != nil {
		return fmt.Errorf("failed to upsert historical balances: %w", err)
	}
	for _, balance := range balances {
		if _, ok := s.data.accounts[balance.AccountID]; !ok {
			return fmt.Errorf("failed to upsert historical balances: %w: account %s", ErrForeignKeyViolation, balance.AccountID)
		}
	}
	for _, balance := range balances {
		row := *balance
		if existing, found := s.data.historicalBalances[row.ID]; found {
			existing.Balance = row.Balance
			row = existing
		} else {
			touch(&row.CreatedAt, nil, time.Time{}, false)
		}
		s.data.historicalBalances[row.ID] = row
	}
	return nil
}

// GetBlockCursor retrieves the last processed block number for a chain
func (s *MemoryStore) GetBlockCursor(_ context.Context, chain string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data.keyValues[blockCursorKey(chain)]
	if !ok {
		return 0, nil
	}
	blockNumber, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse block cursor: %w", err)
	}
	return blockNumber, nil
}

// SetBlockCursor stores the last processed block number for a chain
func (s *MemoryStore) SetBlockCursor(_ context.Context, chain string, blockNumber uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.keyValues[blockCursorKey(chain)] = strconv.FormatUint(blockNumber, 10)
	return nil
}

// WithTransaction runs fn against a snapshot of the store and publishes the snapshot only when fn succeeds
func (s *MemoryStore) WithTransaction(ctx context.Context, fn func(tx Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	tx := &MemoryStore{
		data:     s.data.clone(),
		failures: maps.Clone(s.failures),
	}
	s.mu.RUnlock()

	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = tx.data
	s.writes = append(s.writes, tx.writes...)
	return nil
}

// AssetBalancesOf returns every stored balance of an asset ordered by id
func (s *MemoryStore) AssetBalancesOf(assetID string) []schema.AssetBalance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []schema.AssetBalance
	for _, balance := range s.data.assetBalances {
		if balance.AssetID == assetID {
			out = append(out, balance)
		}
	}
	slices.SortFunc(out, func(a, b schema.AssetBalance) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Transfer returns a stored fungible ledger row
func (s *MemoryStore) Transfer(id string) (schema.Transfer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	transfer, ok := s.data.transfers[id]
	return transfer, ok
}

// Activity returns a stored NFT ledger row
func (s *MemoryStore) Activity(id string) (schema.ActivityEvent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.data.activities[id]
	return event, ok
}

// AccountTransfer returns a stored per-account side row
func (s *MemoryStore) AccountTransfer(id string) (schema.AccountTransfer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	transfer, ok := s.data.accountTransfers[id]
	return transfer, ok
}

// HistoricalBalance returns a stored native balance snapshot
func (s *MemoryStore) HistoricalBalance(id string) (schema.HistoricalBalance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	balance, ok := s.data.historicalBalances[id]
	return balance, ok
}
