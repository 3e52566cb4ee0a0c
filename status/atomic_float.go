package status

import (
	"math"
	"sync/atomic"
)

// AtomicFloat is a float64 gauge stored as its bit pattern, zero value reads 0
type AtomicFloat struct {
	bits atomic.Uint64
}

// Store sets the value
func (f *AtomicFloat) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}

// Load reads the value
func (f *AtomicFloat) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Add adds delta with a CAS loop and returns the result
func (f *AtomicFloat) Add(delta float64) float64 {
	for {
		old := f.bits.Load()
		next := math.Float64frombits(old) + delta
		if f.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}
