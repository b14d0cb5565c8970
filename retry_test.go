package tl2mem

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicallyCommitsOnFirstTry(t *testing.T) {
	r := newTestRegion(t)

	err := Atomically(r, false, func(tx *Tx) error {
		return nil // Write(nothing); Commit immediately via caller fallthrough
	})
	require.NoError(t, err)
}

func TestAtomicallyPropagatesApplicationError(t *testing.T) {
	r := newTestRegion(t)
	sentinel := errors.New("boom")

	err := Atomically(r, false, func(tx *Tx) error {
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestAtomicallyRetriesUntilConflictClears(t *testing.T) {
	r := newTestRegion(t)

	lock := r.lockFor(at(0))
	require.True(t, lock.tryAcquire())

	attempts := 0
	err := Atomically(r, false, func(tx *Tx) error {
		attempts++
		if attempts == 2 {
			// Release the externally-held lock only after the first commit
			// attempt has observed it held and aborted.
			lock.release()
		}
		require.True(t, tx.Write(word(7), 8, at(0)))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts, "first attempt must abort on the held lock, the retry must commit")

	final := Begin(r, true)
	dst := make([]byte, 8)
	require.True(t, final.Read(at(0), 8, dst))
	assert.Equal(t, word(7), dst)
}

func TestAtomicallyIncrementConcurrently(t *testing.T) {
	r := newTestRegion(t)
	seed := Begin(r, false)
	require.True(t, seed.Write(make([]byte, 8), 8, at(0)))
	require.True(t, seed.Commit())

	const goroutines = 20
	const incrementsEach = 25

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < incrementsEach; j++ {
				err := Atomically(r, false, func(tx *Tx) error {
					buf := make([]byte, 8)
					if !tx.Read(at(0), 8, buf) {
						return nil
					}
					buf[0]++
					tx.Write(buf, 8, at(0))
					return nil
				})
				require.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	final := Begin(r, true)
	buf := make([]byte, 8)
	require.True(t, final.Read(at(0), 8, buf))
	assert.Equal(t, byte(goroutines*incrementsEach), buf[0])
}
