package engine

import (
	"time"
)

// Ticker receives the elapsed time since the previous frame
type Ticker interface {
	Tick(dt time.Duration)
}

// TickerFunc adapts a plain function to Ticker
type TickerFunc func(dt time.Duration)

// Tick implements Ticker
func (f TickerFunc) Tick(dt time.Duration) {
	f(dt)
}

// FrameClock is the single logical clock of the game
// An external loop (Driver, simulation, test) feeds it deltas via Advance;
// registered tickers and one-shot timers run synchronously inside Advance
// Not safe for concurrent use: every call belongs to the frame goroutine
type FrameClock struct {
	tickers []*Subscription
	timers  []*Timer

	elapsed time.Duration
	frames  uint64
}

// NewFrameClock creates an idle clock with no subscribers
func NewFrameClock() *FrameClock {
	return &FrameClock{}
}

// Subscription is a ticker registration, cancelled with Cancel
type Subscription struct {
	clock     *FrameClock
	ticker    Ticker
	cancelled bool
}

// Cancel removes the ticker from the clock; safe to call from inside Tick and more than once
func (s *Subscription) Cancel() {
	if s == nil || s.cancelled {
		return
	}
	s.cancelled = true
	s.clock.tickers = removeEntry(s.clock.tickers, s)
}

// Active reports whether the subscription still receives ticks
func (s *Subscription) Active() bool {
	return s != nil && !s.cancelled
}

// Timer is a one-shot callback measured in clock time
type Timer struct {
	clock     *FrameClock
	remaining time.Duration
	fn        func()
	done      bool
}

// Stop cancels the timer, returns false if it already fired or was stopped
func (t *Timer) Stop() bool {
	if t == nil || t.done {
		return false
	}
	t.done = true
	t.clock.timers = removeEntry(t.clock.timers, t)
	return true
}

// Pending reports whether the timer is still armed
func (t *Timer) Pending() bool {
	return t != nil && !t.done
}

// Register subscribes t to every subsequent Advance
// Registration during a frame takes effect from the next frame
func (c *FrameClock) Register(t Ticker) *Subscription {
	sub := &Subscription{clock: c, ticker: t}
	c.tickers = appendEntry(c.tickers, sub)
	return sub
}

// AfterFunc arms fn to run once d of clock time has elapsed
// Timers armed during a frame start counting from the next frame
func (c *FrameClock) AfterFunc(d time.Duration, fn func()) *Timer {
	t := &Timer{clock: c, remaining: d, fn: fn}
	c.timers = appendEntry(c.timers, t)
	return t
}

// Advance delivers dt to all tickers, then fires timers that became due
func (c *FrameClock) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	c.frames++
	c.elapsed += dt

	// Slices are copy-on-write, iteration is over a stable snapshot
	timers := c.timers
	for _, sub := range c.tickers {
		if sub.cancelled {
			continue
		}
		sub.ticker.Tick(dt)
	}

	for _, t := range timers {
		if t.done {
			continue
		}
		t.remaining -= dt
		if t.remaining <= 0 {
			t.done = true
			c.timers = removeEntry(c.timers, t)
			t.fn()
		}
	}
}

// Elapsed returns the total clock time delivered so far
func (c *FrameClock) Elapsed() time.Duration {
	return c.elapsed
}

// Frames returns the number of Advance calls
func (c *FrameClock) Frames() uint64 {
	return c.frames
}

// Subscribers returns the number of active tickers
func (c *FrameClock) Subscribers() int {
	return len(c.tickers)
}

// PendingTimers returns the number of armed timers
func (c *FrameClock) PendingTimers() int {
	return len(c.timers)
}

func appendEntry[T any](list []*T, entry *T) []*T {
	next := make([]*T, len(list), len(list)+1)
	copy(next, list)
	return append(next, entry)
}

func removeEntry[T any](list []*T, entry *T) []*T {
	next := make([]*T, 0, len(list))
	for _, e := range list {
		if e != entry {
			next = append(next, e)
		}
	}
	return next
}
