package kinship

// AddRelationships merges the given peers into the relationship set and
// overwrites the persisted row. One-sided: no peer row is touched.
func (r *Record) AddRelationships(input interface{}) error {
	if r.rels == nil {
		return ErrNotRelational
	}

	if err := r.rels.append(input); err != nil {
		return err
	}

	r.attrs.set(r.kind.RelAttr, r.rels.list())

	return r.overwrite()
}

// RemoveRelationship drops exactly one peer id from the set and overwrites
// the persisted row. Removing an id that is not present is an error and
// leaves the set unchanged. Removal never propagates to the peer; both
// sides must be removed explicitly.
func (r *Record) RemoveRelationship(input interface{}) error {
	if r.rels == nil {
		return ErrNotRelational
	}

	if err := r.rels.remove(input); err != nil {
		return err
	}

	r.attrs.set(r.kind.RelAttr, r.rels.list())

	return r.overwrite()
}

// linkPeers is the active half of the bidirectional update: it appends the
// peers to r's own set and persists r, then re-reads every peer currently
// in the set fresh from the store and applies the passive half to it.
// Propagation stops after one hop; the protocol assumes exactly two kinds
// in a pairwise relationship.
//
// The two writes are independent: without SerializeSync a crash or a race
// between them leaves the pair inconsistent.
func linkPeers(r *Record, peerKind Kind, input interface{}) error {
	if r.rels == nil {
		return ErrNotRelational
	}

	ids, err := normalizeRelationships(input)
	if err != nil {
		return err
	}

	if r.realm.locks != nil {
		keys := append(append(r.rels.list(), ids...), r.ID())
		release := r.realm.locks.Lock(keys...)
		defer release()
	}

	if err := r.AddRelationships(ids); err != nil {
		return err
	}

	for _, peerID := range r.rels.list() {
		peer, err := Load(r.realm, peerKind.TypeTag, peerID)
		if err != nil {
			return err
		}

		if err := backLink(peer, r.ID()); err != nil {
			return err
		}
	}

	return nil
}

// backLink is the passive half: the same mutation as the active half but
// with propagation suppressed, which is what keeps the two sides from
// updating each other forever.
func backLink(peer *Record, id string) error {
	return peer.AddRelationships(id)
}
