package tl2mem

// txState is the transaction's lifecycle state machine: active is the
// only state that accepts reads, writes, or a commit attempt; committed
// and aborted are both terminal.
type txState int

const (
	txActive txState = iota
	txCommitted
	txAborted
)

// readEntry is one (address, observed version) pair recorded by a
// speculative read in a write transaction. Read-only transactions never
// populate a read set: they rely solely on the per-read pre/post snapshot
// check instead, since they have nothing to validate against a write
// version at commit time.
type readEntry struct {
	addr    WordAddr
	version uint64
}

// Tx is a single transaction's private state: its snapshot read version,
// the write version it obtains at commit (if any), whether it is read-only,
// its liveness state, and its read/write sets. A Tx is created by Begin and
// is not safe for concurrent use by more than one goroutine; it has no
// nested-transaction support.
type Tx struct {
	region   *Region
	rv       uint64
	wv       uint64
	readOnly bool
	state    txState

	readSet  []readEntry
	writeSet *writeSet
}

// beginTx creates a new active transaction snapshotting region's current
// clock value. This never fails.
func beginTx(region *Region, readOnly bool) *Tx {
	region.markActive()
	tx := &Tx{
		region:   region,
		rv:       region.readClock(),
		readOnly: readOnly,
		state:    txActive,
	}
	if !readOnly {
		tx.writeSet = newWriteSet()
	}
	return tx
}

// ReadOnly reports whether the transaction was started read-only.
func (tx *Tx) ReadOnly() bool {
	return tx.readOnly
}

// Active reports whether the transaction can still accept reads, writes,
// or a commit attempt.
func (tx *Tx) Active() bool {
	return tx.state == txActive
}

// finish transitions the transaction to a terminal state, releases its
// write-set payloads, and tells the region it is no longer active. It is
// the single exit path for both abort and commit.
func (tx *Tx) finish(final txState) {
	tx.state = final
	if tx.writeSet != nil {
		tx.writeSet.release()
	}
	tx.region.markInactive()
}
