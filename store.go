package kinship

import (
	"github.com/pkg/errors"
)

var ErrRecordNotFound = errors.New("record not found in store")

// Row is the tabular projection of a single record: one column per
// attribute name, each column holding a one-element sequence, so that a
// store can concatenate many rows column-wise.
type Row struct {
	TypeTag string
	Columns map[string][]interface{}
}

func (r Row) ID() string {
	col, ok := r.Columns["id"]
	if !ok || len(col) == 0 {
		return ""
	}

	id, _ := col[0].(string)
	return id
}

// Store is the row-persistence collaborator. Rows are keyed by
// (type tag, id). Implementations must keep a row that has no
// relationship column distinguishable from one holding an empty string:
// Fetch reports the former as an absent key or a nil value, never as "".
type Store interface {
	// Persist inserts a new row.
	Persist(row Row) error

	// Overwrite replaces the existing row for the row's (type tag, id).
	Overwrite(row Row) error

	// Fetch returns the attribute mapping of a single row, or
	// ErrRecordNotFound. The returned mapping must be detached from the
	// store's internal state.
	Fetch(typeTag, id string) (M, error)
}
