package cache

import (
	"context"
	"fmt"
	"slices"

	"github.com/feral-file/ff-uniques-indexer/internal/domain"
	"github.com/feral-file/ff-uniques-indexer/internal/store"
	"github.com/feral-file/ff-uniques-indexer/internal/store/schema"
)

// Entity is any row the cache can stage
type Entity interface {
	TableName() string
}

// FlushError reports the kind whose write failed
type FlushError struct {
	Kind string
	Err  error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("failed to flush %s: %v", e.Kind, e.Err)
}

func (e *FlushError) Unwrap() error {
	return e.Err
}

// Target is either a class or an instance, never both
type Target struct {
	Class    *schema.UniqueClass
	Instance *schema.UniqueInstance
}

// Match calls exactly one of the branches
func (t Target) Match(onClass func(*schema.UniqueClass) error, onInstance func(*schema.UniqueInstance) error) error {
	if t.Instance != nil {
		return onInstance(t.Instance)
	}
	if t.Class != nil {
		return onClass(t.Class)
	}
	return fmt.Errorf("%w: empty class or instance target", domain.ErrMissingParent)
}

// Cache is the entity cache and write buffer of one batch.
// Every entity id has at most one in-memory representative, so handlers
// observe each other's changes before anything is written.
// A Cache has a single owner and is not safe for concurrent use.
type Cache struct {
	store store.Store

	accounts      *table[schema.Account]
	assets        *table[schema.Asset]
	classes       *table[schema.UniqueClass]
	assetBalances *table[schema.AssetBalance]
	instances     *table[schema.UniqueInstance]

	transfers          *table[schema.Transfer]
	activities         *table[schema.ActivityEvent]
	accountTransfers   *table[schema.AccountTransfer]
	historicalBalances *table[schema.HistoricalBalance]
}

// New creates an empty cache reading through to st
func New(st store.Store) *Cache {
	return &Cache{
		store:              st,
		accounts:           newTable[schema.Account](),
		assets:             newTable[schema.Asset](),
		classes:            newTable[schema.UniqueClass](),
		assetBalances:      newTable[schema.AssetBalance](),
		instances:          newTable[schema.UniqueInstance](),
		transfers:          newTable[schema.Transfer](),
		activities:         newTable[schema.ActivityEvent](),
		accountTransfers:   newTable[schema.AccountTransfer](),
		historicalBalances: newTable[schema.HistoricalBalance](),
	}
}

// lookup returns the cached representative, or loads it from the store and caches it.
// A nil entity with a nil error means it exists in neither.
func lookup[T any](ctx context.Context, t *table[T], id string, load func(context.Context, string) (*T, error)) (*T, error) {
	if entity, ok := t.get(id); ok {
		return entity, nil
	}
	entity, err := load(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, nil
	}
	return t.remember(id, entity), nil
}

func missing(kind string, id string) error {
	return fmt.Errorf("%w: %s %s", domain.ErrMissingParent, kind, id)
}

// GetOrCreateAccount returns the account, creating a zero balance account when unknown
func (c *Cache) GetOrCreateAccount(ctx context.Context, address domain.Address) (*schema.Account, error) {
	id := address.String()
	account, err := lookup(ctx, c.accounts, id, c.store.GetAccount)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", id, err)
	}
	if account == nil {
		account = c.accounts.remember(id, schema.NewAccount(id))
	}
	return account, nil
}

// GetOrCreateAsset returns the asset, creating a blank active asset when unknown
func (c *Cache) GetOrCreateAsset(ctx context.Context, id string) (*schema.Asset, error) {
	asset, err := lookup(ctx, c.assets, id, c.store.GetAsset)
	if err != nil {
		return nil, fmt.Errorf("failed to get asset %s: %w", id, err)
	}
	if asset == nil {
		asset = c.assets.remember(id, schema.NewAsset(id))
	}
	return asset, nil
}

// GetAsset returns the asset or domain.ErrMissingParent
func (c *Cache) GetAsset(ctx context.Context, id string) (*schema.Asset, error) {
	asset, err := lookup(ctx, c.assets, id, c.store.GetAsset)
	if err != nil {
		return nil, fmt.Errorf("failed to get asset %s: %w", id, err)
	}
	if asset == nil {
		return nil, missing("asset", id)
	}
	return asset, nil
}

// GetOrCreateAssetBalance returns the account's holding of the asset, creating a zero holding when unknown
func (c *Cache) GetOrCreateAssetBalance(ctx context.Context, assetID string, account domain.Address) (*schema.AssetBalance, error) {
	id := domain.AssetBalanceID(assetID, account)
	balance, err := lookup(ctx, c.assetBalances, id, c.store.GetAssetBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to get asset balance %s: %w", id, err)
	}
	if balance == nil {
		balance = c.assetBalances.remember(id, schema.NewAssetBalance(assetID, account))
	}
	return balance, nil
}

// GetOrCreateUniqueClass returns the class, creating a blank active class when unknown
func (c *Cache) GetOrCreateUniqueClass(ctx context.Context, classID uint32) (*schema.UniqueClass, error) {
	id := domain.ClassID(classID)
	class, err := lookup(ctx, c.classes, id, c.store.GetUniqueClass)
	if err != nil {
		return nil, fmt.Errorf("failed to get unique class %s: %w", id, err)
	}
	if class == nil {
		class = c.classes.remember(id, schema.NewUniqueClass(id))
	}
	return class, nil
}

// GetUniqueClass returns the class or domain.ErrMissingParent
func (c *Cache) GetUniqueClass(ctx context.Context, classID uint32) (*schema.UniqueClass, error) {
	id := domain.ClassID(classID)
	class, err := lookup(ctx, c.classes, id, c.store.GetUniqueClass)
	if err != nil {
		return nil, fmt.Errorf("failed to get unique class %s: %w", id, err)
	}
	if class == nil {
		return nil, missing("unique class", id)
	}
	return class, nil
}

// GetOrCreateUniqueInstance returns the instance, creating a blank unowned instance when unknown
func (c *Cache) GetOrCreateUniqueInstance(ctx context.Context, classID, instanceID uint32) (*schema.UniqueInstance, error) {
	id := domain.ItemID(classID, instanceID)
	instance, err := lookup(ctx, c.instances, id, c.store.GetUniqueInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to get unique instance %s: %w", id, err)
	}
	if instance == nil {
		instance = c.instances.remember(id, schema.NewUniqueInstance(classID, instanceID))
	}
	return instance, nil
}

// GetUniqueInstance returns the instance or domain.ErrMissingParent
func (c *Cache) GetUniqueInstance(ctx context.Context, classID, instanceID uint32) (*schema.UniqueInstance, error) {
	return c.getUniqueInstance(ctx, domain.ItemID(classID, instanceID))
}

func (c *Cache) getUniqueInstance(ctx context.Context, id string) (*schema.UniqueInstance, error) {
	instance, err := lookup(ctx, c.instances, id, c.store.GetUniqueInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to get unique instance %s: %w", id, err)
	}
	if instance == nil {
		return nil, missing("unique instance", id)
	}
	return instance, nil
}

// ClassOrInstance returns the instance when instanceID is set, otherwise the class.
// Both must already exist.
func (c *Cache) ClassOrInstance(ctx context.Context, classID uint32, instanceID *uint32) (Target, error) {
	if instanceID != nil {
		instance, err := c.GetUniqueInstance(ctx, classID, *instanceID)
		if err != nil {
			return Target{}, err
		}
		return Target{Instance: instance}, nil
	}

	class, err := c.GetUniqueClass(ctx, classID)
	if err != nil {
		return Target{}, err
	}
	return Target{Class: class}, nil
}

// InstancesOfClass returns every stored instance of the class together with
// the instances touched in this batch, ordered by id
func (c *Cache) InstancesOfClass(ctx context.Context, classID string) ([]*schema.UniqueInstance, error) {
	ids, err := c.store.ListInstanceIDsByClass(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to list instances of class %s: %w", classID, err)
	}
	for id, instance := range c.instances.byID {
		if instance.ClassID == classID && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	instances := make([]*schema.UniqueInstance, 0, len(ids))
	for _, id := range ids {
		instance, err := c.getUniqueInstance(ctx, id)
		if err != nil {
			return nil, err
		}
		instances = append(instances, instance)
	}
	return instances, nil
}

// FindTransferByExtrinsic returns the latest transfer row of the extrinsic, staged rows first
func (c *Cache) FindTransferByExtrinsic(ctx context.Context, extrinsicID string) (*schema.Transfer, error) {
	for _, id := range c.transfers.stagedIDsNewestFirst() {
		transfer, _ := c.transfers.get(id)
		if transfer.ExtrinsicID != nil && *transfer.ExtrinsicID == extrinsicID {
			return transfer, nil
		}
	}

	transfer, err := c.store.FindTransferByExtrinsicID(ctx, extrinsicID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transfer of extrinsic %s: %w", extrinsicID, err)
	}
	if transfer == nil {
		return nil, nil
	}
	return c.transfers.remember(transfer.ID, transfer), nil
}

// FindLatestActivity returns the latest activity row matching the filter, staged rows first
func (c *Cache) FindLatestActivity(ctx context.Context, filter store.ActivityFilter) (*schema.ActivityEvent, error) {
	for _, id := range c.activities.stagedIDsNewestFirst() {
		activity, _ := c.activities.get(id)
		if store.MatchActivity(activity, filter) {
			return activity, nil
		}
	}

	activity, err := c.store.FindLatestActivity(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find activity of instance %s: %w", filter.InstanceID, err)
	}
	if activity == nil {
		return nil, nil
	}
	return c.activities.remember(activity.ID, activity), nil
}

// Stage marks entities to be written by the next Flush.
// Staging the same entity again is a no-op.
func (c *Cache) Stage(entities ...Entity) {
	for _, entity := range entities {
		switch e := entity.(type) {
		case *schema.Account:
			c.accounts.stage(e.ID, e)
		case *schema.Asset:
			c.assets.stage(e.ID, e)
		case *schema.UniqueClass:
			c.classes.stage(e.ID, e)
		case *schema.AssetBalance:
			c.assetBalances.stage(e.ID, e)
		case *schema.UniqueInstance:
			c.instances.stage(e.ID, e)
		case *schema.Transfer:
			c.transfers.stage(e.ID, e)
		case *schema.ActivityEvent:
			c.activities.stage(e.ID, e)
		case *schema.AccountTransfer:
			c.accountTransfers.stage(e.ID, e)
		case *schema.HistoricalBalance:
			c.historicalBalances.stage(e.ID, e)
		default:
			panic(fmt.Sprintf("cache: cannot stage %T", entity))
		}
	}
}

// IsStaged reports whether the entity is waiting for the next Flush
func (c *Cache) IsStaged(entity Entity) bool {
	switch e := entity.(type) {
	case *schema.Account:
		return c.accounts.isStaged(e.ID)
	case *schema.Asset:
		return c.assets.isStaged(e.ID)
	case *schema.UniqueClass:
		return c.classes.isStaged(e.ID)
	case *schema.AssetBalance:
		return c.assetBalances.isStaged(e.ID)
	case *schema.UniqueInstance:
		return c.instances.isStaged(e.ID)
	case *schema.Transfer:
		return c.transfers.isStaged(e.ID)
	case *schema.ActivityEvent:
		return c.activities.isStaged(e.ID)
	case *schema.AccountTransfer:
		return c.accountTransfers.isStaged(e.ID)
	case *schema.HistoricalBalance:
		return c.historicalBalances.isStaged(e.ID)
	default:
		return false
	}
}

// Staged returns the number of staged rows per table
func (c *Cache) Staged() map[string]int {
	return map[string]int{
		store.TableAccounts:           c.accounts.stagedCount(),
		store.TableAssets:             c.assets.stagedCount(),
		store.TableUniqueClasses:      c.classes.stagedCount(),
		store.TableAssetBalances:      c.assetBalances.stagedCount(),
		store.TableUniqueInstances:    c.instances.stagedCount(),
		store.TableTransfers:          c.transfers.stagedCount(),
		store.TableActivityEvents:     c.activities.stagedCount(),
		store.TableAccountTransfers:   c.accountTransfers.stagedCount(),
		store.TableHistoricalBalances: c.historicalBalances.stagedCount(),
	}
}

// flushStep writes the staged rows of one kind
type flushStep struct {
	kind  string
	count func() int
	write func(ctx context.Context, st store.Store) error
}

func (c *Cache) flushSteps() []flushStep {
	return []flushStep{
		// parents
		{store.TableAccounts, c.accounts.stagedCount, func(ctx context.Context, st store.Store) error {
			return st.UpsertAccounts(ctx, c.accounts.stagedRows())
		}},
		{store.TableAssets, c.assets.stagedCount, func(ctx context.Context, st store.Store) error {
			return st.UpsertAssets(ctx, c.assets.stagedRows())
		}},
		{store.TableUniqueClasses, c.classes.stagedCount, func(ctx context.Context, st store.Store) error {
			return st.UpsertUniqueClasses(ctx, c.classes.stagedRows())
		}},
		// children
		{store.TableAssetBalances, c.assetBalances.stagedCount, func(ctx context.Context, st store.Store) error {
			return st.UpsertAssetBalances(ctx, c.assetBalances.stagedRows())
		}},
		{store.TableUniqueInstances, c.instances.stagedCount, func(ctx context.Context, st store.Store) error {
			return st.UpsertUniqueInstances(ctx, c.instances.stagedRows())
		}},
		// ledger
		{store.TableTransfers, c.transfers.stagedCount, func(ctx context.Context, st store.Store) error {
			return st.UpsertTransfers(ctx, c.transfers.stagedRows())
		}},
		{store.TableActivityEvents, c.activities.stagedCount, func(ctx context.Context, st store.Store) error {
			return st.UpsertActivityEvents(ctx, c.activities.stagedRows())
		}},
		{store.TableAccountTransfers, c.accountTransfers.stagedCount, func(ctx context.Context, st store.Store) error {
			return st.UpsertAccountTransfers(ctx, c.accountTransfers.stagedRows())
		}},
		{store.TableHistoricalBalances, c.historicalBalances.stagedCount, func(ctx context.Context, st store.Store) error {
			return st.UpsertHistoricalBalances(ctx, c.historicalBalances.stagedRows())
		}},
	}
}

// Flush writes every staged entity to st, parents before children before ledger rows,
// then clears the cache. st is normally bound to a transaction so that a failed kind
// commits nothing. On failure the cache keeps its state and the batch must be abandoned.
func (c *Cache) Flush(ctx context.Context, st store.Store) error {
	for _, step := range c.flushSteps() {
		if step.count() == 0 {
			continue
		}
		if err := step.write(ctx, st); err != nil {
			return &FlushError{Kind: step.kind, Err: err}
		}
	}

	c.Reset()
	return nil
}

// Reset drops every cached and staged entity
func (c *Cache) Reset() {
	c.accounts.reset()
	c.assets.reset()
	c.classes.reset()
	c.assetBalances.reset()
	c.instances.reset()
	c.transfers.reset()
	c.activities.reset()
	c.accountTransfers.reset()
	c.historicalBalances.reset()
}
