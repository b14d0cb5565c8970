package tl2mem

import "sync/atomic"

// globalClock is the monotonic, never-decreasing logical timestamp oracle
// shared by every transaction on a Region. It is bumped exactly once per
// committing write transaction, and the bumped value becomes that
// transaction's write version.
type globalClock struct {
	v uint64
}

// read returns the current clock value without advancing it.
func (c *globalClock) read() uint64 {
	return atomic.LoadUint64(&c.v)
}

// bump atomically advances the clock by one and returns the new value.
// The returned value is unique to this call: no other bump can observe or
// return the same value.
func (c *globalClock) bump() uint64 {
	return atomic.AddUint64(&c.v, 1)
}
