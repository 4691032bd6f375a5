package cache

import (
	set "github.com/deckarep/golang-set/v2"
)

// table holds the single in-memory representative of every entity of one kind
// touched in the batch, and the staged subset in first-staged order.
type table[T any] struct {
	byID   map[string]*T
	staged set.Set[string]
	order  []string
}

func newTable[T any]() *table[T] {
	return &table[T]{
		byID: make(map[string]*T),
		// the cache has a single owner
		staged: set.NewThreadUnsafeSet[string](),
	}
}

func (t *table[T]) get(id string) (*T, bool) {
	entity, ok := t.byID[id]
	return entity, ok
}

// remember caches an entity unless a representative already exists, and returns the representative
func (t *table[T]) remember(id string, entity *T) *T {
	if existing, ok := t.byID[id]; ok {
		return existing
	}
	t.byID[id] = entity
	return entity
}

// stage marks the entity dirty; staging an id again keeps its original position
func (t *table[T]) stage(id string, entity *T) {
	t.byID[id] = entity
	if t.staged.Add(id) {
		t.order = append(t.order, id)
	}
}

func (t *table[T]) isStaged(id string) bool {
	return t.staged.Contains(id)
}

// stagedRows returns staged entities in staging order
func (t *table[T]) stagedRows() []*T {
	rows := make([]*T, 0, len(t.order))
	for _, id := range t.order {
		rows = append(rows, t.byID[id])
	}
	return rows
}

// stagedIDsNewestFirst returns staged ids, most recently staged first
func (t *table[T]) stagedIDsNewestFirst() []string {
	ids := make([]string, 0, len(t.order))
	for i := len(t.order) - 1; i >= 0; i-- {
		ids = append(ids, t.order[i])
	}
	return ids
}

func (t *table[T]) stagedCount() int {
	return len(t.order)
}

func (t *table[T]) reset() {
	clear(t.byID)
	t.staged.Clear()
	t.order = nil
}
