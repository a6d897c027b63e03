package kinship

import (
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

var ErrInvalidAttrType = errors.New("attribute has invalid type")
var ErrRequiredAttrMissing = errors.New("required attribute not provided")

// M is a mapping of attribute names to scalar values.
type M map[string]interface{}

// attrs is the validated attribute bag of a single record. Every value is
// one of the allowed scalar types and an id is always present.
type attrs struct {
	m M
}

func newAttrs(m M, required []string, relAttr string) (*attrs, error) {
	if m == nil {
		m = make(M)
	}

	if err := checkAttrTypes(m, relAttr); err != nil {
		return nil, err
	}

	for _, name := range required {
		if _, ok := m[name]; !ok {
			return nil, errors.Wrapf(ErrRequiredAttrMissing, "attribute %s", name)
		}
	}

	cp := make(M, len(m)+1)
	for name, v := range m {
		cp[name] = v
	}

	if _, ok := cp["id"]; !ok {
		cp["id"] = uuid.NewString()
	}

	return &attrs{m: cp}, nil
}

// checkAttrTypes validates every value against the allowed scalar set.
// The relationship attribute is exempt: it is resolved to its canonical
// form separately and may arrive in any of the accepted input shapes.
func checkAttrTypes(m M, relAttr string) error {
	for name, v := range m {
		if relAttr != "" && name == relAttr {
			continue
		}

		switch v.(type) {
		case string, int, int64, float64:
		default:
			return errors.Wrapf(ErrInvalidAttrType, "attribute %s has invalid type %T", name, v)
		}
	}

	return nil
}

func (a *attrs) id() string {
	id, _ := a.m["id"].(string)
	return id
}

func (a *attrs) get(name string) (interface{}, bool) {
	v, ok := a.m[name]
	return v, ok
}

func (a *attrs) set(name string, v interface{}) {
	a.m[name] = v
}

// snapshot returns a deep copy of the mapping so callers can never alias
// the bag's internal state.
func (a *attrs) snapshot() M {
	cp := make(M, len(a.m))
	if err := copier.CopyWithOption(&cp, a.m, copier.Option{DeepCopy: true}); err != nil {
		panic("could not copy attributes: " + err.Error())
	}

	return cp
}

// toRow projects the bag into its tabular form: one column per attribute,
// each holding a one-element sequence.
func (a *attrs) toRow(typeTag string) Row {
	columns := make(map[string][]interface{}, len(a.m))
	for name, v := range a.m {
		columns[name] = []interface{}{v}
	}

	return Row{TypeTag: typeTag, Columns: columns}
}
