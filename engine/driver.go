package engine

import (
	"time"
)

// Driver converts wall-clock readings into FrameClock deltas
// The main loop calls Step once per frame ticker fire
type Driver struct {
	clock    *FrameClock
	provider TimeProvider
	maxDelta time.Duration
	last     time.Time
}

// NewDriver creates a driver starting at the provider's current time
// maxDelta caps a single step so a stalled process does not teleport the reel
func NewDriver(clock *FrameClock, provider TimeProvider, maxDelta time.Duration) *Driver {
	return &Driver{
		clock:    clock,
		provider: provider,
		maxDelta: maxDelta,
		last:     provider.Now(),
	}
}

// Step advances the clock by the time since the previous step and returns the delta applied
func (d *Driver) Step() time.Duration {
	now := d.provider.Now()
	dt := now.Sub(d.last)
	d.last = now

	if dt < 0 {
		dt = 0
	}
	if d.maxDelta > 0 && dt > d.maxDelta {
		dt = d.maxDelta
	}

	d.clock.Advance(dt)
	return dt
}

// Clock returns the driven clock
func (d *Driver) Clock() *FrameClock {
	return d.clock
}
