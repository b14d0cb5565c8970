package tl2mem

import "sync/atomic"

// versionedLock packs a one-bit held flag and a 63-bit version counter into
// a single atomic word:
//
//	bit 0       : held flag (1 = locked)
//	bits 1-63   : version
//
// Packing both into one word lets a reader take a consistent pre/post
// snapshot of "is this word locked, and as of what version" with a single
// atomic load each time, which is the basis of TL2's invisible reads: a
// reader never announces itself and never blocks a writer.
//
// The zero value is unlocked at version 0, matching a freshly zeroed
// segment.
type versionedLock struct {
	word uint64
}

const lockFlagBit uint64 = 1

func packLock(held bool, version uint64) uint64 {
	w := version << 1
	if held {
		w |= lockFlagBit
	}
	return w
}

func unpackLock(w uint64) (held bool, version uint64) {
	return w&lockFlagBit != 0, w >> 1
}

// snapshot atomically reads the raw (flag, version) pair.
func (l *versionedLock) snapshot() (held bool, version uint64) {
	return unpackLock(atomic.LoadUint64(&l.word))
}

// tryAcquire attempts to set the held flag via compare-and-swap, preserving
// the current version. It never blocks: if the lock is already held, it
// returns false immediately. CAS (rather than load-then-store) is required
// because a concurrent installVersion could otherwise race between the
// load and the store and get silently overwritten.
func (l *versionedLock) tryAcquire() bool {
	for {
		old := atomic.LoadUint64(&l.word)
		held, version := unpackLock(old)
		if held {
			return false
		}
		newWord := packLock(true, version)
		if atomic.CompareAndSwapUint64(&l.word, old, newWord) {
			return true
		}
	}
}

// release clears the held flag without changing the version. This is the
// abort-path unlock: a transaction that fails after acquiring some write-
// set locks must release them without publishing any version bump, so a
// subsequent reader does not observe a spurious version advance for writes
// that never happened. The caller must hold the lock.
func (l *versionedLock) release() {
	held, version := unpackLock(atomic.LoadUint64(&l.word))
	if !held {
		panic("tl2mem: release of a lock not held")
	}
	atomic.StoreUint64(&l.word, packLock(false, version))
}

// installVersion publishes a new version and clears the held flag in one
// atomic store. This is the commit-path unlock: bumping the version and
// releasing the lock must be indivisible, or a reader could observe the
// lock free with the old (stale) version after the corresponding write was
// already published elsewhere. The caller must hold the lock.
func (l *versionedLock) installVersion(v uint64) {
	held, _ := unpackLock(atomic.LoadUint64(&l.word))
	if !held {
		panic("tl2mem: installVersion on a lock not held")
	}
	atomic.StoreUint64(&l.word, v<<1)
}
