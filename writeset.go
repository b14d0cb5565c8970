package tl2mem

// writeSet is the deferred-write buffer for one transaction: a mapping
// from shared word address to a private copy of the bytes that should be
// published there on commit. A transaction exclusively owns its write set;
// the bytes are never visible outside it until commit's publish phase.
//
// Keys are unique: writing the same address twice within a transaction
// replaces the first payload rather than appending a second entry, so only
// the last write to any address is ever visible.
type writeSet struct {
	order []WordAddr
	data  map[WordAddr][]byte
}

func newWriteSet() *writeSet {
	return &writeSet{data: make(map[WordAddr][]byte)}
}

// lookup returns the buffered payload for addr, if any.
func (ws *writeSet) lookup(addr WordAddr) ([]byte, bool) {
	v, ok := ws.data[addr]
	return v, ok
}

// put buffers a copy of val under addr, replacing (and dropping) any prior
// payload for that address.
func (ws *writeSet) put(addr WordAddr, val []byte) {
	if _, exists := ws.data[addr]; !exists {
		ws.order = append(ws.order, addr)
	}
	buf := make([]byte, len(val))
	copy(buf, val)
	ws.data[addr] = buf
}

// has reports whether addr has a buffered payload.
func (ws *writeSet) has(addr WordAddr) bool {
	_, ok := ws.data[addr]
	return ok
}

// len reports the number of distinct addresses buffered.
func (ws *writeSet) len() int {
	return len(ws.data)
}

// addrsInOrder returns the buffered addresses in first-write order. Phase 1
// of commit must iterate in a deterministic order so the set of locks held
// so far is well defined at every point of a failed acquisition; it need
// not be globally sorted, since deadlock avoidance here comes from
// try-lock-or-abort, not from lock ordering.
func (ws *writeSet) addrsInOrder() []WordAddr {
	return ws.order
}

// release drops all buffered payloads. Called on both abort and after a
// successful commit's publish phase, so no payload outlives its owning
// transaction.
func (ws *writeSet) release() {
	ws.order = nil
	ws.data = nil
}
