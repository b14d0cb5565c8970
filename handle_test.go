package tl2mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInvalidOnBadParams(t *testing.T) {
	assert.False(t, Create(10, 3).Valid())
	assert.Equal(t, InvalidRegion, Create(0, 8))
}

func TestCreateValidRoundTrip(t *testing.T) {
	h := Create(32, 8)
	require.True(t, h.Valid())
	assert.Equal(t, uint64(32), SizeOf(h))
	assert.Equal(t, uint64(8), AlignOf(h))
	assert.Equal(t, WordAddr{SegmentID: 0, Offset: 0}, Start(h))
}

func TestBeginEndReadWriteThroughHandles(t *testing.T) {
	h := Create(16, 8)

	tx := BeginTx(h, false)
	require.True(t, tx.Valid())

	src := word(0x7A)
	require.True(t, WriteAt(tx, src, 8, WordAddr{SegmentID: 0, Offset: 0}))
	assert.True(t, EndTx(tx))

	tx2 := BeginTx(h, true)
	dst := make([]byte, 8)
	require.True(t, ReadAt(tx2, WordAddr{SegmentID: 0, Offset: 0}, 8, dst))
	assert.Equal(t, src, dst)
	assert.True(t, EndTx(tx2))
}

func TestEndTxOnInvalidHandleReturnsFalse(t *testing.T) {
	assert.False(t, EndTx(InvalidTx))
}

func TestAllocGrowsRegionAndFreeIsNoop(t *testing.T) {
	h := Create(16, 8)
	tx := BeginTx(h, false)

	addr, result := Alloc(tx, h, 8)
	require.Equal(t, AllocSuccess, result)
	assert.Equal(t, uint32(1), addr.SegmentID)

	assert.True(t, Free(tx, addr))
	assert.True(t, EndTx(tx))
}

func TestAllocAbortsOnMisalignedSize(t *testing.T) {
	h := Create(16, 8)
	tx := BeginTx(h, false)

	_, result := Alloc(tx, h, 5)
	assert.Equal(t, AllocAbort, result)
	assert.False(t, tx.tx.Active())
}

func TestDestroyRegionRefusesWithActiveTx(t *testing.T) {
	h := Create(16, 8)
	tx := BeginTx(h, true)

	assert.ErrorIs(t, DestroyRegion(h), ErrRegionBusy)

	assert.True(t, EndTx(tx))
	assert.NoError(t, DestroyRegion(h))
}
