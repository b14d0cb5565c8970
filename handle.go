package tl2mem

// RegionHandle and TxHandle are the opaque handles exposed to callers that
// want a C-ABI-shaped surface (create/begin/end by value, rather than by
// pointer) instead of the Go-native *Region/*Tx API above. This layer is a
// thin cast over the engine types: it carries no logic of its own beyond
// translating the sentinel-handle convention (InvalidRegion/InvalidTx) into
// Go types, mirroring the original C signatures' invalid_shared/invalid_tx.
type RegionHandle struct {
	region *Region
}

type TxHandle struct {
	tx *Tx
}

// InvalidRegion and InvalidTx are the sentinel handles returned on failure,
// distinct from any handle wrapping a live region or transaction.
var (
	InvalidRegion = RegionHandle{}
	InvalidTx     = TxHandle{}
)

// Valid reports whether h wraps a live region.
func (h RegionHandle) Valid() bool {
	return h.region != nil
}

// Valid reports whether h wraps a live transaction.
func (h TxHandle) Valid() bool {
	return h.tx != nil
}

// Create allocates and initializes a new shared memory region with one
// mandatory first segment of size bytes at the given alignment. It returns
// InvalidRegion if size/align violate the documented preconditions.
func Create(size, align uint64) RegionHandle {
	region, err := NewRegion(size, align)
	if err != nil {
		return InvalidRegion
	}
	return RegionHandle{region: region}
}

// DestroyRegion tears down h. It returns ErrRegionBusy if a transaction is
// still active on it, and also if h is InvalidRegion.
func DestroyRegion(h RegionHandle) error {
	if !h.Valid() {
		return ErrRegionBusy
	}
	return h.region.Destroy()
}

// Start returns the address of the first byte of the region's first
// segment.
func Start(h RegionHandle) WordAddr {
	return h.region.firstSegmentAddr()
}

// SizeOf returns the configured size of the region's first segment.
func SizeOf(h RegionHandle) uint64 {
	return h.region.Size()
}

// AlignOf returns the region's configured alignment.
func AlignOf(h RegionHandle) uint64 {
	return h.region.Align()
}

// BeginTx begins a new transaction on h, read-only iff readOnly. It
// returns InvalidTx only if h itself is invalid; beginning a transaction
// otherwise never fails.
func BeginTx(h RegionHandle, readOnly bool) TxHandle {
	if !h.Valid() {
		return InvalidTx
	}
	return TxHandle{tx: Begin(h.region, readOnly)}
}

// EndTx ends h's transaction, returning true iff it committed. On false
// the transaction handle becomes invalid and must not be reused.
func EndTx(h TxHandle) bool {
	if !h.Valid() {
		return false
	}
	return h.tx.Commit()
}

// ReadAt performs a transactional read through h. It returns false (and
// invalidates h's transaction) on abort.
func ReadAt(h TxHandle, src WordAddr, n uint64, dst []byte) bool {
	if !h.Valid() {
		return false
	}
	return h.tx.Read(src, n, dst)
}

// WriteAt performs a transactional write through h. It returns false (and
// invalidates h's transaction) on a precondition violation.
func WriteAt(h TxHandle, src []byte, n uint64, target WordAddr) bool {
	if !h.Valid() {
		return false
	}
	return h.tx.Write(src, n, target)
}

// AllocResult is the three-way outcome of Alloc: a new segment was
// created (Success), the allocation itself failed (NoMem), or the
// transaction must abort due to a precondition violation (Abort).
type AllocResult int

const (
	AllocSuccess AllocResult = iota
	AllocNoMem
	AllocAbort
)

// Alloc grows h's region by one new segment of n bytes (n must be a
// positive multiple of the region's alignment) and returns the new
// segment's base address. Segments are never removed; Free (below) is a
// documented no-op, with actual reclamation deferred to region teardown.
func Alloc(h TxHandle, region RegionHandle, n uint64) (WordAddr, AllocResult) {
	if !h.Valid() || !region.Valid() || !h.tx.Active() {
		return WordAddr{}, AllocAbort
	}
	if n == 0 || n%region.region.align != 0 {
		h.tx.finish(txAborted)
		return WordAddr{}, AllocAbort
	}
	addr, err := region.region.AddSegment(n)
	if err != nil {
		return WordAddr{}, AllocNoMem
	}
	return addr, AllocSuccess
}

// Free is a documented no-op: segment deallocation inside a running
// transaction is deferred to the region's eventual teardown, which avoids
// needing hazard pointers or epoch-based reclamation for an engine with no
// nested transactions and no durability requirement. The address is
// ignored; Free reports that the transaction may continue (true) whenever h
// wraps an active transaction, and false otherwise.
func Free(h TxHandle, _ WordAddr) bool {
	return h.Valid() && h.tx.Active()
}
