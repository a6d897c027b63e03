package kinship

import (
	"github.com/croixbt/kinship/internal/striped"
	"github.com/pkg/errors"
)

var ErrRealmAlreadyClosed = errors.New("realm already closed")

// Realm is the explicit handle to the Store collaborator: constructed once
// at process start and passed into every record operation. It owns the
// kind registry and, when configured, the lock set serializing
// bidirectional updates.
type Realm struct {
	store  Store
	kinds  *kindRegistry
	locks  *striped.Set
	closed bool
}

type Closer func() error

func NullCloser() error { return nil }

func Open(store Store, cfg *Config) (*Realm, Closer, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	kinds := append([]Kind{PersonKind, GroupKind}, cfg.ExtraKinds...)

	rm := &Realm{
		store: store,
		kinds: newKindRegistry(kinds...),
	}

	if cfg.SerializeSync {
		stripes := cfg.LockStripes
		if stripes == 0 {
			stripes = defaultLockStripes
		}
		rm.locks = striped.New(stripes)
	}

	return rm, rm.close, nil
}

// close releases the store as well, if the store exposes a lifecycle.
func (rm *Realm) close() error {
	if rm.closed {
		return ErrRealmAlreadyClosed
	}

	rm.closed = true

	if c, ok := rm.store.(interface{ Close() error }); ok {
		return c.Close()
	}

	return nil
}
