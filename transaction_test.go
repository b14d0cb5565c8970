package tl2mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeginTxSnapshotsCurrentClock(t *testing.T) {
	r := newTestRegion(t)
	r.bumpClock()
	r.bumpClock()

	tx := beginTx(r, true)
	assert.Equal(t, uint64(2), tx.rv)
	assert.True(t, tx.Active())
}

func TestReadOnlyTxHasNoWriteSet(t *testing.T) {
	r := newTestRegion(t)
	tx := beginTx(r, true)
	assert.Nil(t, tx.writeSet)
}

func TestWriteTxHasEmptyWriteSet(t *testing.T) {
	r := newTestRegion(t)
	tx := beginTx(r, false)
	require.NotNil(t, tx.writeSet)
	assert.Equal(t, 0, tx.writeSet.len())
}

func TestFinishTransitionsStateAndNotifiesRegion(t *testing.T) {
	r := newTestRegion(t)
	tx := beginTx(r, false)
	require.True(t, tx.Active())

	tx.finish(txCommitted)

	assert.False(t, tx.Active())
	assert.Equal(t, txCommitted, tx.state)
	assert.NoError(t, r.Destroy(), "region must see the transaction as inactive after finish")
}
