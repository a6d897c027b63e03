package kinship

import (
	"github.com/pkg/errors"
)

var ErrNotRelational = errors.New("record kind has no relationship set")

// Record is a persisted entity instance: a type tag, a validated attribute
// bag and, for relational kinds, a relationship set kept in lockstep with
// the bag's relationship attribute.
type Record struct {
	realm *Realm
	kind  Kind
	attrs *attrs
	rels  *relSet
}

// NewRecord validates the mapping against the kind and builds an in-memory
// record, persisting it unless constructed Volatile. For relational kinds
// the relationship attribute is resolved to its canonical id form before
// the first write, so the store never sees a half-built encoding.
func NewRecord(rm *Realm, kind Kind, m M, opts ...Option) (*Record, error) {
	o := recordOptions{persist: true}
	for _, opt := range opts {
		opt(&o)
	}

	bag, err := newAttrs(m, kind.Required, kind.RelAttr)
	if err != nil {
		return nil, err
	}

	r := &Record{realm: rm, kind: kind, attrs: bag}

	if kind.relational() {
		raw, _ := bag.get(kind.RelAttr)
		rels, err := newRelSet(raw)
		if err != nil {
			return nil, err
		}

		r.rels = rels
		bag.set(kind.RelAttr, rels.list())
	}

	if o.persist {
		if err := r.Save(); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Load fetches a record's row from the store and rebuilds the in-memory
// instance without persisting it again.
func Load(rm *Realm, typeTag, id string) (*Record, error) {
	kind, err := rm.kinds.lookup(typeTag)
	if err != nil {
		return nil, err
	}

	raw, err := rm.store.Fetch(typeTag, id)
	if err != nil {
		return nil, err
	}

	if kind.relational() {
		raw[kind.RelAttr] = decodeRelationshipColumn(raw[kind.RelAttr])
	}

	return NewRecord(rm, kind, raw, Volatile())
}

func (r *Record) ID() string {
	return r.attrs.id()
}

func (r *Record) TypeTag() string {
	return r.kind.TypeTag
}

func (r *Record) Kind() Kind {
	return r.kind
}

// Attrs returns a detached copy of the attribute mapping.
func (r *Record) Attrs() M {
	return r.attrs.snapshot()
}

// Relationships returns the canonical peer id sequence, or nil for
// non-relational kinds.
func (r *Record) Relationships() []string {
	if r.rels == nil {
		return nil
	}

	return r.rels.list()
}

// UpdateAttributes validates and merges new values into the bag, then
// overwrites the persisted row. A value under the relationship attribute
// replaces the relationship set after normalization, so the bag and the
// set cannot diverge.
func (r *Record) UpdateAttributes(m M) error {
	if err := checkAttrTypes(m, r.kind.RelAttr); err != nil {
		return err
	}

	for name, v := range m {
		if r.kind.relational() && name == r.kind.RelAttr {
			rels, err := newRelSet(v)
			if err != nil {
				return err
			}

			r.rels = rels
			r.attrs.set(name, rels.list())
			continue
		}

		r.attrs.set(name, v)
	}

	return r.overwrite()
}

// Save pushes the full row to the store as a new record.
func (r *Record) Save() error {
	return r.realm.store.Persist(r.ToRow())
}

func (r *Record) overwrite() error {
	return r.realm.store.Overwrite(r.ToRow())
}

// ToRow projects the record to its tabular form, with the relationship
// attribute replaced by its delimiter-joined string encoding.
func (r *Record) ToRow() Row {
	row := r.attrs.toRow(r.kind.TypeTag)
	if r.kind.relational() {
		row.Columns[r.kind.RelAttr] = []interface{}{r.rels.String()}
	}

	return row
}

// Refresh replaces the in-memory state with the store's current row,
// discarding any local mutation that was not persisted. It is the only
// sanctioned way to observe a peer-side change made by a bidirectional
// update.
func (r *Record) Refresh() error {
	fresh, err := Load(r.realm, r.kind.TypeTag, r.ID())
	if err != nil {
		return err
	}

	r.attrs = fresh.attrs
	r.rels = fresh.rels

	return nil
}
