package tl2mem

// Begin creates a new transaction context against region, snapshotting its
// current clock value as the transaction's read version. This operation
// never fails.
func Begin(region *Region, readOnly bool) *Tx {
	return beginTx(region, readOnly)
}

// wordCount validates that size is a positive multiple of the region's
// alignment and that base is itself aligned, returning the number of words
// the range spans.
func (tx *Tx) wordCount(base WordAddr, size uint64) (uint64, bool) {
	align := tx.region.align
	if size == 0 || size%align != 0 {
		return 0, false
	}
	if uint64(base.Offset)%align != 0 {
		return 0, false
	}
	return size / align, true
}

func addrAt(base WordAddr, i uint64, align uint64) WordAddr {
	return WordAddr{SegmentID: base.SegmentID, Offset: base.Offset + uintptr(i*align)}
}

// Read copies size bytes starting at src (a shared address) into dst (a
// caller-owned buffer), word by word. size must be a positive multiple of
// the region's alignment, and src must itself be aligned.
//
// A read-only transaction performs an invisible speculative read for every
// word: it samples the word's lock, copies the bytes, and samples the lock
// again, aborting if the lock was held at either snapshot, if the word's
// version is newer than the transaction's read version, or if the two
// snapshots disagree. It never populates a read set, since it never
// validates anything at commit (its commit is a no-op fast path).
//
// A write transaction additionally consults its own write set first — a
// word it already wrote earlier in this same transaction is read back from
// the buffered payload, never from shared memory — and on falling through
// to a real shared read, records the observed (address, version) pair in
// its read set for validation at commit.
//
// Read returns false if the transaction aborts; the transaction is then no
// longer usable and the caller must treat its handle as invalid.
func (tx *Tx) Read(src WordAddr, size uint64, dst []byte) bool {
	if tx.state != txActive {
		return false
	}
	n, ok := tx.wordCount(src, size)
	if !ok {
		tx.finish(txAborted)
		return false
	}

	align := tx.region.align
	for i := uint64(0); i < n; i++ {
		addr := addrAt(src, i, align)
		word := dst[i*align : (i+1)*align]

		if tx.writeSet != nil {
			if buf, found := tx.writeSet.lookup(addr); found {
				copy(word, buf)
				continue
			}
		}

		version, ok := tx.readWordValidated(addr, word)
		if !ok {
			tx.finish(txAborted)
			return false
		}
		if tx.writeSet != nil {
			tx.readSet = append(tx.readSet, readEntry{addr: addr, version: version})
		}
	}
	return true
}

// readWordValidated performs the pre/post snapshot sandwich read common to
// both read-only and write transactions: sample the lock, copy the bytes,
// sample the lock again. Both the pre-snapshot and the comparison against
// the post-snapshot are mandatory — checking only the pre-version would
// let a transaction read torn memory mid-write and carry that inconsistency
// forward, which is exactly the opacity violation TL2 is designed to rule
// out.
func (tx *Tx) readWordValidated(addr WordAddr, dst []byte) (version uint64, ok bool) {
	lock := tx.region.lockFor(addr)

	preHeld, preVersion := lock.snapshot()
	if preHeld || preVersion > tx.rv {
		return 0, false
	}

	if !tx.region.readWord(addr, dst) {
		return 0, false
	}

	postHeld, postVersion := lock.snapshot()
	if postHeld || postVersion != preVersion {
		return 0, false
	}

	return preVersion, true
}

// Write buffers size bytes from src into the transaction's write set under
// target, word by word, replacing any prior buffered payload for the same
// address. size must be a positive multiple of the region's alignment, and
// target must itself be aligned. Writes never touch shared memory and
// never fail before commit; the only failure mode is a precondition
// violation, which aborts the transaction.
func (tx *Tx) Write(src []byte, size uint64, target WordAddr) bool {
	if tx.state != txActive {
		return false
	}
	if tx.writeSet == nil {
		// Read-only transaction attempting a write: a precondition
		// violation, not a conflict.
		tx.finish(txAborted)
		return false
	}
	n, ok := tx.wordCount(target, size)
	if !ok {
		tx.finish(txAborted)
		return false
	}

	align := tx.region.align
	for i := uint64(0); i < n; i++ {
		addr := addrAt(target, i, align)
		tx.writeSet.put(addr, src[i*align:(i+1)*align])
	}
	return true
}

// Commit runs the four-phase TL2 commit protocol for a write transaction,
// or takes the read-only fast path (immediately committed, nothing to
// validate) for a read-only one and for a write transaction that buffered
// no writes. It returns true iff the transaction
// committed; on false the transaction has aborted and must not be reused.
func (tx *Tx) Commit() bool {
	if tx.state != txActive {
		return false
	}

	if tx.readOnly || tx.writeSet.len() == 0 {
		tx.finish(txCommitted)
		return true
	}

	locked, ok := tx.acquireWriteSetLocks()
	if !ok {
		tx.releaseLocks(locked)
		tx.finish(txAborted)
		return false
	}

	wv := tx.region.bumpClock()
	tx.wv = wv

	if wv != tx.rv+1 && !tx.validateReadSet() {
		tx.releaseLocks(locked)
		tx.finish(txAborted)
		return false
	}

	tx.publishAndRelease(locked, wv)
	tx.finish(txCommitted)
	return true
}

// acquireWriteSetLocks is commit Phase 1: try-acquire every write-set
// lock, in the write set's stored (first-write) order. On the first
// failure it stops and returns the locks it managed to acquire so far, so
// the caller can release exactly those. Order only needs to be
// deterministic for a given write-set content, not globally sorted:
// deadlock is avoided by try-lock-or-abort, not by lock ordering.
func (tx *Tx) acquireWriteSetLocks() ([]*versionedLock, bool) {
	addrs := tx.writeSet.addrsInOrder()
	locked := make([]*versionedLock, 0, len(addrs))
	for _, addr := range addrs {
		lock := tx.region.lockFor(addr)
		if !lock.tryAcquire() {
			return locked, false
		}
		locked = append(locked, lock)
	}
	return locked, true
}

// validateReadSet is commit Phase 3, skipped entirely when wv == rv+1
// (no other committing writer could possibly have interleaved between
// this transaction's begin and its own write-version bump). For every
// other write version, every read-set entry must still be unlocked (or
// locked only by this transaction's own Phase-1 acquisition) and must
// carry a version no greater than rv.
//
// A lock this transaction itself holds appears "held" to a naive check;
// that is expected and must be accepted, since we know we will install a
// fresh version wv > rv on it momentarily. The correct test is: the
// pre-acquisition version was <= rv, and either the lock is free or it is
// one we hold (i.e. its address is in our own write set).
func (tx *Tx) validateReadSet() bool {
	for _, entry := range tx.readSet {
		lock := tx.region.lockFor(entry.addr)
		held, version := lock.snapshot()
		ownedByUs := tx.writeSet.has(entry.addr)
		if version > tx.rv {
			return false
		}
		if held && !ownedByUs {
			return false
		}
	}
	return true
}

// publishAndRelease is commit Phase 4: for every write-set entry, copy its
// buffered payload into shared memory, then install the new version on its
// lock — a single atomic store that simultaneously publishes the version
// and releases the lock, so no reader can observe the new version before
// the corresponding bytes are visible.
func (tx *Tx) publishAndRelease(locked []*versionedLock, wv uint64) {
	addrs := tx.writeSet.addrsInOrder()
	for idx, addr := range addrs {
		payload, _ := tx.writeSet.lookup(addr)
		tx.region.writeWord(addr, payload)
		locked[idx].installVersion(wv)
	}
}

// releaseLocks releases every lock acquired so far without installing a
// new version, for the abort paths of Phase 1 and Phase 3.
func (tx *Tx) releaseLocks(locked []*versionedLock) {
	for _, lock := range locked {
		lock.release()
	}
}

// Abort discards the transaction: it is marked inactive, its buffered
// write payloads are released, and no shared state is touched. The
// transaction must not be reused afterward.
func (tx *Tx) Abort() {
	if tx.state != txActive {
		return
	}
	tx.finish(txAborted)
}
