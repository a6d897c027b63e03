package kinship

const defaultLockStripes = 16

// Config tunes a Realm. The zero value reproduces the source design: no
// serialization around the two independent writes of a bidirectional
// update, so concurrent callers mutating the same pair can lose updates
// (classic read-modify-write race).
type Config struct {
	// SerializeSync guards every bidirectional update with per-id striped
	// mutexes, closing the read-modify-write race at the cost of
	// serializing writers whose ids share a stripe.
	SerializeSync bool

	// LockStripes sets the stripe count used when SerializeSync is on.
	LockStripes int

	// ExtraKinds registers kind descriptors beyond Person and Group.
	ExtraKinds []Kind
}

type recordOptions struct {
	persist bool
}

type Option func(*recordOptions)

// Volatile constructs the record in memory only; the caller persists it
// explicitly with Save.
func Volatile() Option {
	return func(o *recordOptions) {
		o.persist = false
	}
}
