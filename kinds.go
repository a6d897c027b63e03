package kinship

import (
	"github.com/pkg/errors"
)

var ErrUnknownKind = errors.New("unknown record kind")

// Kind describes a concrete record kind: its store partition tag, the
// attributes that must be present at construction and, for relational
// kinds, the name of the attribute holding the relationship set.
type Kind struct {
	TypeTag  string
	Required []string
	RelAttr  string // empty for non-relational kinds
}

func (k Kind) relational() bool {
	return k.RelAttr != ""
}

var (
	// PersonKind references group ids under "groups".
	PersonKind = Kind{TypeTag: "person", Required: []string{"name"}, RelAttr: "groups"}

	// GroupKind references person ids under "members".
	GroupKind = Kind{TypeTag: "group", Required: []string{"name"}, RelAttr: "members"}
)

// kindRegistry maps type tags to kind descriptors, so records can be
// decoded from the store without per-kind virtual dispatch.
type kindRegistry struct {
	kinds map[string]Kind
}

func newKindRegistry(kinds ...Kind) *kindRegistry {
	r := &kindRegistry{kinds: make(map[string]Kind, len(kinds))}
	for _, k := range kinds {
		r.kinds[k.TypeTag] = k
	}

	return r
}

func (r *kindRegistry) lookup(typeTag string) (Kind, error) {
	k, ok := r.kinds[typeTag]
	if !ok {
		return Kind{}, errors.Wrapf(ErrUnknownKind, "type tag %s", typeTag)
	}

	return k, nil
}
