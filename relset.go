package kinship

import (
	"strings"

	"github.com/pkg/errors"
)

var ErrRelationshipNotFound = errors.New("relationship does not exist")
var ErrInvalidRelationship = errors.New("relationship input has invalid form")

// Delimiter separates peer ids in the serialized relationship column.
// Ids must not contain it.
const Delimiter = ";"

// Identifiable is anything carrying a record identity. Both concrete
// record kinds satisfy it, which lets relationship inputs mix live
// records with raw id strings.
type Identifiable interface {
	ID() string
}

// relSet keeps the canonical form of a relationship set: unique peer ids
// in order of first insertion.
type relSet struct {
	ids []string
}

func newRelSet(input interface{}) (*relSet, error) {
	rs := &relSet{}
	if err := rs.append(input); err != nil {
		return nil, err
	}

	return rs, nil
}

// normalizeRelationships resolves any accepted input form to a flat id
// sequence: nil, a delimited string, a single peer, a raw id slice or a
// mixed slice of peers and raw ids.
func normalizeRelationships(input interface{}) ([]string, error) {
	switch v := input.(type) {
	case nil:
		return nil, nil
	case string:
		if v == "" {
			// splitting "" on the delimiter would yield [""], not an
			// empty sequence
			return nil, nil
		}
		return strings.Split(v, Delimiter), nil
	case Identifiable:
		return []string{v.ID()}, nil
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, nil
	case []Identifiable:
		out := make([]string, 0, len(v))
		for _, peer := range v {
			out = append(out, peer.ID())
		}
		return out, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, el := range v {
			switch typed := el.(type) {
			case string:
				out = append(out, typed)
			case Identifiable:
				out = append(out, typed.ID())
			default:
				return nil, errors.Wrapf(ErrInvalidRelationship, "element of type %T", el)
			}
		}
		return out, nil
	default:
		return nil, errors.Wrapf(ErrInvalidRelationship, "%T", input)
	}
}

// singleRelationshipID resolves an input that must denote exactly one peer.
func singleRelationshipID(input interface{}) (string, error) {
	switch v := input.(type) {
	case string:
		return v, nil
	case Identifiable:
		return v.ID(), nil
	default:
		return "", errors.Wrapf(ErrInvalidRelationship, "%T", input)
	}
}

// append merges the normalized input into the canonical sequence, skipping
// ids that are already present.
func (rs *relSet) append(input interface{}) error {
	ids, err := normalizeRelationships(input)
	if err != nil {
		return err
	}

	for _, id := range ids {
		if !rs.contains(id) {
			rs.ids = append(rs.ids, id)
		}
	}

	return nil
}

// remove drops exactly one occurrence of the given peer's id. Removing an
// absent id is an error and leaves the sequence unchanged.
func (rs *relSet) remove(input interface{}) error {
	id, err := singleRelationshipID(input)
	if err != nil {
		return err
	}

	for i := range rs.ids {
		if rs.ids[i] == id {
			rs.ids = append(rs.ids[:i], rs.ids[i+1:]...)
			return nil
		}
	}

	return errors.Wrapf(ErrRelationshipNotFound, "relationship with %s", id)
}

func (rs *relSet) contains(id string) bool {
	for i := range rs.ids {
		if rs.ids[i] == id {
			return true
		}
	}

	return false
}

// list returns a detached copy of the canonical sequence. It is never nil,
// so an empty set stays distinguishable from "no relationship set".
func (rs *relSet) list() []string {
	out := make([]string, len(rs.ids))
	copy(out, rs.ids)
	return out
}

// String serializes the canonical sequence for the tabular row form. An
// empty set serializes to the empty string.
func (rs *relSet) String() string {
	return strings.Join(rs.ids, Delimiter)
}

// decodeRelationshipColumn maps a store's raw relationship field to an
// input safe to normalize. The store's null marker, an absent key or nil
// value, decodes to an empty set, as does the empty string.
func decodeRelationshipColumn(v interface{}) interface{} {
	if v == nil {
		return []string{}
	}

	if s, ok := v.(string); ok && s == "" {
		return []string{}
	}

	return v
}
