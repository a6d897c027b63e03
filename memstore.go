package kinship

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/tidwall/btree"
)

const storedRowCastPanic = "how could a store row not be of type *storedRow"

// storedRow is a flattened row as kept by MemoryStore. A relational record
// persisted without its relationship column keeps the null marker: no
// entry under that name in Attrs.
type storedRow struct {
	TypeTag string `json:"type"`
	ID      string `json:"id"`
	Attrs   M      `json:"attrs"`
}

func byStoreKeys(a, b interface{}) bool {
	r1, ok1 := a.(*storedRow)
	r2, ok2 := b.(*storedRow)
	if !ok1 || !ok2 {
		panic(storedRowCastPanic)
	}

	if r1.TypeTag != r2.TypeTag {
		return r1.TypeTag < r2.TypeTag
	}

	return r1.ID < r2.ID
}

// MemoryStore is an in-process Store keeping rows in a btree ordered by
// (type tag, id). Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	rows *btree.BTree
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: btree.NewNonConcurrent(byStoreKeys)}
}

func (ms *MemoryStore) Persist(row Row) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.rows.Set(flattenRow(row))

	return nil
}

func (ms *MemoryStore) Overwrite(row Row) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	sr := flattenRow(row)
	if ms.rows.Get(sr) == nil {
		return errors.Wrapf(ErrRecordNotFound, "%s:%s", sr.TypeTag, sr.ID)
	}

	ms.rows.Set(sr)

	return nil
}

func (ms *MemoryStore) Fetch(typeTag, id string) (M, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	found := ms.rows.Get(&storedRow{TypeTag: typeTag, ID: id})
	if found == nil {
		return nil, errors.Wrapf(ErrRecordNotFound, "%s:%s", typeTag, id)
	}

	sr, ok := found.(*storedRow)
	if !ok {
		panic(storedRowCastPanic)
	}

	out := make(M, len(sr.Attrs))
	for name, v := range sr.Attrs {
		out[name] = v
	}

	return out, nil
}

func (ms *MemoryStore) Count() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	return ms.rows.Len()
}

// flattenRow keeps the first element of each one-element column sequence.
func flattenRow(row Row) *storedRow {
	attrs := make(M, len(row.Columns))
	for name, col := range row.Columns {
		if len(col) == 0 {
			continue
		}
		attrs[name] = col[0]
	}

	return &storedRow{TypeTag: row.TypeTag, ID: row.ID(), Attrs: attrs}
}
