package kinship

// Group is a named record referencing its members by person id.
type Group struct {
	*Record
}

func NewGroup(rm *Realm, m M, opts ...Option) (*Group, error) {
	rec, err := NewRecord(rm, GroupKind, m, opts...)
	if err != nil {
		return nil, err
	}

	return &Group{Record: rec}, nil
}

// LoadGroup rebuilds a group from its stored row.
func LoadGroup(rm *Realm, id string) (*Group, error) {
	rec, err := Load(rm, GroupKind.TypeTag, id)
	if err != nil {
		return nil, err
	}

	return &Group{Record: rec}, nil
}

func (g *Group) Name() string {
	v, _ := g.attrs.get("name")
	name, _ := v.(string)
	return name
}

// Members returns the ids of the persons belonging to the group.
func (g *Group) Members() []string {
	return g.Relationships()
}

// AddMember records the membership on this side, then brings every
// referenced person's group set in line by re-reading it from the store.
func (g *Group) AddMember(person interface{}) error {
	return linkPeers(g.Record, PersonKind, person)
}

// RemoveMember drops the person from this side only; the person keeps its
// group entry until it is removed there as well.
func (g *Group) RemoveMember(person interface{}) error {
	return g.RemoveRelationship(person)
}

func (g *Group) Equal(other *Group) bool {
	return other != nil && g.ID() == other.ID()
}
