// Package tl2mem implements a software transactional memory engine over a
// bounded region of shared bytes, following TL2 (Transactional Locking II).
//
// Client goroutines perform optimistic read/write transactions against a
// Region's byte segments. Reads are speculative: a transaction samples a
// word's versioned lock before and after copying it, and aborts if the
// lock was held or changed version mid-read. Writes are buffered locally
// and never touch shared memory until commit. Commit runs four phases in
// order: acquire write-set locks (try-or-abort, no blocking), bump the
// global version clock to obtain a write version, validate the read set
// against the transaction's read version (skipped when the write version is
// exactly one past it), then publish buffered writes and release
// locks by installing the new version.
//
// The engine guarantees opacity (even a doomed transaction only ever
// observes a consistent snapshot) and serializability (every committed
// transaction has a linearization point between its write-version bump and
// the release of its last lock). It does not guarantee fairness: a
// transaction may starve under sustained conflict, and callers that want
// retry-until-success semantics should use Atomically.
//
// The engine itself spawns no goroutines. It takes no lock on the read or
// write path; the mutexes it does take are the segment-list mutex during
// AddSegment and Destroy, and a Region's active-transaction counter mutex,
// held briefly by Begin, by the end of every commit or abort, and by
// Destroy. There is no nested-transaction support, no deadlock
// detection beyond try-lock-or-abort, and no durability across process
// restarts.
package tl2mem
