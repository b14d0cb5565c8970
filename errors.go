package tl2mem

import "errors"

// Sentinel errors. The engine never logs, retries, or recovers internally.
// NewRegion, AddSegment, Region.Destroy and DestroyRegion return these
// errors; Read, Write and Commit instead report a conflict, a precondition
// violation or an inactive transaction as a false result, after which the
// transaction is inactive. ErrConflict, ErrTxInactive, ErrNoMem and
// ErrUnknownAddress are not returned by any function of this package.
var (
	// ErrConflict means the transaction lost a race: a lock it needed was
	// held by another transaction, or a read-set entry's version advanced
	// past the transaction's read version. The transaction is no longer
	// active; the caller may retry from Begin.
	ErrConflict = errors.New("tl2mem: transaction conflict")

	// ErrTxInactive means an operation was attempted on a transaction that
	// already committed or aborted.
	ErrTxInactive = errors.New("tl2mem: transaction is not active")

	// ErrMisaligned means a size or address argument was not a multiple of
	// the region's alignment.
	ErrMisaligned = errors.New("tl2mem: address or size is not aligned")

	// ErrNoMem means a segment allocation failed. The transaction remains
	// active; this is a resource-exhaustion error, not a conflict.
	ErrNoMem = errors.New("tl2mem: segment allocation failed")

	// ErrInvalidSize means Create was called with a size/align pair that
	// violates the region's size-vs-alignment invariant.
	ErrInvalidSize = errors.New("tl2mem: size must be a positive multiple of align")

	// ErrInvalidAlign means Create was called with an alignment that is
	// not a power of two.
	ErrInvalidAlign = errors.New("tl2mem: align must be a power of two")

	// ErrUnknownAddress means Free was called with an address that does
	// not correspond to any segment this region owns.
	ErrUnknownAddress = errors.New("tl2mem: address does not belong to this region")

	// ErrRegionBusy means Destroy was called while a transaction is still
	// active on the region. DestroyRegion also returns it for InvalidRegion.
	ErrRegionBusy = errors.New("tl2mem: region has an active transaction")
)
