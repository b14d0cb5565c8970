package tl2mem

import (
	"math/rand"
	"time"
)

// Atomically runs fn in a loop against region until it commits, retrying
// from a fresh Begin on every abort. fn receives a live transaction and
// should return a non-nil error only to request an application-level
// abort (the transaction is aborted and the error is returned immediately,
// without retry); any other return simply attempts to commit.
//
// This sits above the engine primitives as ergonomic sugar: Begin, Read,
// Write, Commit, and Abort remain the building blocks, and nothing here
// changes their semantics. Retries back off with a capped exponential
// delay plus jitter so that sustained contention degrades into spaced-out
// retries rather than a hot spin loop; this is not a fairness guarantee,
// only a throttle.
func Atomically(region *Region, readOnly bool, fn func(tx *Tx) error) error {
	const (
		baseDelay = 50 * time.Microsecond
		maxDelay  = 10 * time.Millisecond
		maxStep   = 4
	)

	for attempt := 0; ; attempt++ {
		tx := Begin(region, readOnly)
		if err := fn(tx); err != nil {
			tx.Abort()
			return err
		}
		if tx.Commit() {
			return nil
		}

		step := attempt
		if step > maxStep {
			step = maxStep
		}
		delay := baseDelay << uint(step)
		if delay > maxDelay {
			delay = maxDelay
		}
		delay += time.Duration(rand.Int63n(int64(baseDelay)))
		time.Sleep(delay)
	}
}
