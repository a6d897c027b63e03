package kinship_test

import (
	"errors"
	"testing"

	"github.com/croixbt/kinship"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_RecordRoundTrip(t *testing.T) {
	rm, closer, err := kinship.Open(kinship.NewMemoryStore(), nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, closer()) }()

	alice, err := kinship.NewPerson(rm, kinship.M{"name": "Alice", "age": 42})
	require.NoError(t, err)
	require.NotEqual(t, "", alice.ID())

	loaded, err := kinship.LoadPerson(rm, alice.ID())
	require.NoError(t, err)

	assert.Equal(t, alice.ID(), loaded.ID())
	assert.Equal(t, "Alice", loaded.Name())
	assert.Equal(t, alice.Attrs(), loaded.Attrs())
}

func Test_RecordConstruction(t *testing.T) {
	rm, closer, err := kinship.Open(kinship.NewMemoryStore(), nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, closer()) }()

	t.Run("missing name fails before anything is persisted", func(t *testing.T) {
		store := kinship.NewMemoryStore()
		rm2, _, err := kinship.Open(store, nil)
		require.NoError(t, err)

		p, err := kinship.NewPerson(rm2, kinship.M{"age": 42})
		require.Error(t, err)
		require.Nil(t, p)
		assert.True(t, errors.Is(err, kinship.ErrRequiredAttrMissing))
		assert.Equal(t, 0, store.Count())
	})

	t.Run("volatile record is not persisted until Save", func(t *testing.T) {
		store := kinship.NewMemoryStore()
		rm2, _, err := kinship.Open(store, nil)
		require.NoError(t, err)

		p, err := kinship.NewPerson(rm2, kinship.M{"name": "Bob"}, kinship.Volatile())
		require.NoError(t, err)
		assert.Equal(t, 0, store.Count())

		require.NoError(t, p.Save())
		assert.Equal(t, 1, store.Count())
	})

	t.Run("relationship attribute accepts the delimited string form", func(t *testing.T) {
		p, err := kinship.NewPerson(rm, kinship.M{"name": "Carol", "groups": "g1;g2"})
		require.NoError(t, err)
		assert.Equal(t, []string{"g1", "g2"}, p.Groups())
	})

	t.Run("fresh person starts with an empty relationship set", func(t *testing.T) {
		p, err := kinship.NewPerson(rm, kinship.M{"name": "Dave"})
		require.NoError(t, err)
		assert.Equal(t, []string{}, p.Groups())
	})
}

func Test_RecordToRow(t *testing.T) {
	rm, closer, err := kinship.Open(kinship.NewMemoryStore(), nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, closer()) }()

	p, err := kinship.NewPerson(rm, kinship.M{"name": "Alice", "groups": "g1;g2"})
	require.NoError(t, err)

	row := p.ToRow()

	assert.Equal(t, "person", row.TypeTag)
	assert.Equal(t, []interface{}{"g1;g2"}, row.Columns["groups"])
	assert.Equal(t, []interface{}{"Alice"}, row.Columns["name"])

	t.Run("empty set serializes to the empty string", func(t *testing.T) {
		p2, err := kinship.NewPerson(rm, kinship.M{"name": "Bob"})
		require.NoError(t, err)
		assert.Equal(t, []interface{}{""}, p2.ToRow().Columns["groups"])
	})
}

func Test_RecordUpdateAttributes(t *testing.T) {
	rm, closer, err := kinship.Open(kinship.NewMemoryStore(), nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, closer()) }()

	p, err := kinship.NewPerson(rm, kinship.M{"name": "Alice"})
	require.NoError(t, err)

	t.Run("merge is persisted", func(t *testing.T) {
		require.NoError(t, p.UpdateAttributes(kinship.M{"age": 42, "city": "Berlin"}))

		loaded, err := kinship.LoadPerson(rm, p.ID())
		require.NoError(t, err)
		assert.Equal(t, 42, loaded.Attrs()["age"])
		assert.Equal(t, "Berlin", loaded.Attrs()["city"])
	})

	t.Run("invalid type leaves the record untouched", func(t *testing.T) {
		err := p.UpdateAttributes(kinship.M{"age": true})
		require.Error(t, err)
		assert.True(t, errors.Is(err, kinship.ErrInvalidAttrType))
		assert.Equal(t, 42, p.Attrs()["age"])
	})

	t.Run("relationship attribute is canonicalized on update", func(t *testing.T) {
		require.NoError(t, p.UpdateAttributes(kinship.M{"groups": "g1;g1;g2"}))
		assert.Equal(t, []string{"g1", "g2"}, p.Groups())
	})
}

func Test_RecordLoadFailures(t *testing.T) {
	rm, closer, err := kinship.Open(kinship.NewMemoryStore(), nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, closer()) }()

	t.Run("unknown id", func(t *testing.T) {
		_, err := kinship.LoadPerson(rm, "no-such-id")
		require.Error(t, err)
		assert.True(t, errors.Is(err, kinship.ErrRecordNotFound))
	})

	t.Run("unknown type tag", func(t *testing.T) {
		_, err := kinship.Load(rm, "martian", "id-1")
		require.Error(t, err)
		assert.True(t, errors.Is(err, kinship.ErrUnknownKind))
	})
}

func Test_RecordLoadNullRelationshipMarker(t *testing.T) {
	store := kinship.NewMemoryStore()
	rm, closer, err := kinship.Open(store, nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, closer()) }()

	// a row written without its relationship column carries the store's
	// null marker rather than an empty string
	require.NoError(t, store.Persist(kinship.Row{
		TypeTag: "person",
		Columns: map[string][]interface{}{
			"id":   {"p1"},
			"name": {"Alice"},
		},
	}))

	p, err := kinship.LoadPerson(rm, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{}, p.Groups())
}

func Test_RecordRefresh(t *testing.T) {
	rm, closer, err := kinship.Open(kinship.NewMemoryStore(), nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, closer()) }()

	p, err := kinship.NewPerson(rm, kinship.M{"name": "Alice"})
	require.NoError(t, err)

	// a second handle to the same row mutates it behind p's back
	other, err := kinship.LoadPerson(rm, p.ID())
	require.NoError(t, err)
	require.NoError(t, other.UpdateAttributes(kinship.M{"city": "Berlin"}))

	_, ok := p.Attrs()["city"]
	require.False(t, ok)

	require.NoError(t, p.Refresh())
	assert.Equal(t, "Berlin", p.Attrs()["city"])
}

func Test_RealmClose(t *testing.T) {
	rm, closer, err := kinship.Open(kinship.NewMemoryStore(), nil)
	require.NoError(t, err)
	_ = rm

	require.NoError(t, closer())

	err = closer()
	require.Error(t, err)
	assert.True(t, errors.Is(err, kinship.ErrRealmAlreadyClosed))
}
