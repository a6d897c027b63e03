package kinship

// Person is a named record referencing the groups it belongs to by
// group id.
type Person struct {
	*Record
}

func NewPerson(rm *Realm, m M, opts ...Option) (*Person, error) {
	rec, err := NewRecord(rm, PersonKind, m, opts...)
	if err != nil {
		return nil, err
	}

	return &Person{Record: rec}, nil
}

// LoadPerson rebuilds a person from its stored row.
func LoadPerson(rm *Realm, id string) (*Person, error) {
	rec, err := Load(rm, PersonKind.TypeTag, id)
	if err != nil {
		return nil, err
	}

	return &Person{Record: rec}, nil
}

func (p *Person) Name() string {
	v, _ := p.attrs.get("name")
	name, _ := v.(string)
	return name
}

// Groups returns the ids of the groups the person belongs to.
func (p *Person) Groups() []string {
	return p.Relationships()
}

// AddToGroup records the membership on this side, then brings every
// referenced group's member set in line by re-reading it from the store.
func (p *Person) AddToGroup(group interface{}) error {
	return linkPeers(p.Record, GroupKind, group)
}

// RemoveFromGroup drops the group from this side only; the group keeps
// its member entry until it is removed there as well.
func (p *Person) RemoveFromGroup(group interface{}) error {
	return p.RemoveRelationship(group)
}

func (p *Person) Equal(other *Person) bool {
	return other != nil && p.ID() == other.ID()
}
