package memstore

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dartalib/backend/core"
)

// table is an in-memory collection keyed by id. Reads and writes go through
// the RWMutex; every successful write additionally fires a best-effort,
// asynchronous mirror write that never blocks or fails the caller.
//
// Iteration order is insertion order, which callers rely on for
// first-created-wins lookups.
type table[T any] struct {
	sync.RWMutex
	name    string
	rows    map[string]T
	order   []string
	mirror  Mirror
	logger  core.Logger
	pending *sync.WaitGroup // in-flight mirror writes, shared across tables
	dirty   *int64          // failed mirror writes, shared across tables
}

func newTable[T any](name string, mirror Mirror, logger core.Logger, pending *sync.WaitGroup, dirty *int64) *table[T] {
	return &table[T]{
		name:    name,
		rows:    make(map[string]T),
		mirror:  mirror,
		logger:  logger,
		pending: pending,
		dirty:   dirty,
	}
}

func (t *table[T]) insert(id string, v T) {
	t.Lock()
	t.rows[id] = v
	t.order = append(t.order, id)
	t.Unlock()
	t.mirrorWrite(func() error { return t.mirror.Insert(t.name, id, v) })
}

func (t *table[T]) update(id string, v T) bool {
	t.Lock()
	if _, ok := t.rows[id]; !ok {
		t.Unlock()
		return false
	}
	t.rows[id] = v
	t.Unlock()
	t.mirrorWrite(func() error { return t.mirror.Update(t.name, id, v) })
	return true
}

func (t *table[T]) upsert(id string, v T) {
	t.Lock()
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
	t.Unlock()
	t.mirrorWrite(func() error { return t.mirror.Upsert(t.name, id, v) })
}

func (t *table[T]) delete(ids ...string) {
	t.Lock()
	for _, id := range ids {
		if _, ok := t.rows[id]; !ok {
			continue
		}
		delete(t.rows, id)
		for i, oid := range t.order {
			if oid == id {
				t.order = append(t.order[:i], t.order[i+1:]...)
				break
			}
		}
	}
	t.Unlock()
	for _, id := range ids {
		id := id
		t.mirrorWrite(func() error { return t.mirror.Delete(t.name, id) })
	}
}

func (t *table[T]) get(id string) (T, bool) {
	t.RLock()
	defer t.RUnlock()
	v, ok := t.rows[id]
	return v, ok
}

// all returns the rows in insertion order.
func (t *table[T]) all() []T {
	t.RLock()
	defer t.RUnlock()
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

func (t *table[T]) len() int {
	t.RLock()
	defer t.RUnlock()
	return len(t.rows)
}

// seed loads mirrored rows, replacing the current contents. Insertion order
// follows the mirror's select order.
func (t *table[T]) seed(rows []MirrorRow) error {
	t.Lock()
	defer t.Unlock()
	t.rows = make(map[string]T, len(rows))
	t.order = t.order[:0]
	for _, row := range rows {
		var v T
		if err := json.Unmarshal(row.Data, &v); err != nil {
			return fmt.Errorf("memstore: seeding %s row %s: %w", t.name, row.ID, err)
		}
		t.rows[row.ID] = v
		t.order = append(t.order, row.ID)
	}
	return nil
}

// mirrorWrite runs a mirror operation in the background. Mirror failures are
// logged and otherwise ignored: the in-memory copy stays authoritative.
func (t *table[T]) mirrorWrite(op func() error) {
	t.pending.Add(1)
	go func() {
		defer t.pending.Done()
		if err := op(); err != nil {
			atomic.AddInt64(t.dirty, 1)
			t.logger.Warn(fmt.Sprintf("memstore: mirror write for %s failed: %v", t.name, err))
		}
	}()
}
