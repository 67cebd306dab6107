// Package scan schedules timed sweep choreographies over a populated
// depth grid, with cancellation semantics that guarantee no trigger
// fires after teardown.
package scan

import (
	"sort"
	"sync"
	"time"
)

// Timer is a cancellable pending callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the callback was
	// still pending.
	Stop() bool
}

// Clock schedules delayed callbacks. Production uses RealClock; tests
// drive a ManualClock so sweeps run without wall-clock sleeping.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock schedules on the runtime timer wheel.
type RealClock struct{}

type realTimer struct{ t *time.Timer }

func (r realTimer) Stop() bool { return r.t.Stop() }

// AfterFunc schedules f after d on a runtime timer.
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{t: time.AfterFunc(d, f)}
}

// ManualClock is a deterministic clock for tests: pending callbacks
// fire in deadline order only when Advance moves the logical time past
// them.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	clock    *ManualClock
	deadline time.Duration
	seq      int
	fn       func()
	stopped  bool
	fired    bool
}

// Stop cancels the pending callback.
func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// NewManualClock creates a manual clock at logical time zero.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// Now returns the current logical time.
func (c *ManualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc registers f to fire once the logical time reaches now+d.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{
		clock:    c,
		deadline: c.now + d,
		seq:      c.seq,
		fn:       f,
	}
	c.seq++
	c.pending = append(c.pending, t)
	return t
}

// Advance moves the logical time forward by d, firing due callbacks in
// (deadline, registration) order. Callbacks run without the clock lock
// held, so they may schedule or stop timers themselves.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d

	for {
		next := c.nextDueLocked(target)
		if next == nil {
			break
		}
		c.now = next.deadline
		next.fired = true
		c.mu.Unlock()
		next.fn()
		c.mu.Lock()
	}

	c.now = target
	c.compactLocked()
	c.mu.Unlock()
}

// nextDueLocked finds the earliest unfired, unstopped timer with a
// deadline at or before target.
func (c *ManualClock) nextDueLocked(target time.Duration) *manualTimer {
	var best *manualTimer
	for _, t := range c.pending {
		if t.fired || t.stopped || t.deadline > target {
			continue
		}
		if best == nil || t.deadline < best.deadline ||
			(t.deadline == best.deadline && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (c *ManualClock) compactLocked() {
	live := c.pending[:0]
	for _, t := range c.pending {
		if !t.fired && !t.stopped {
			live = append(live, t)
		}
	}
	c.pending = live
	sort.Slice(c.pending, func(i, j int) bool {
		if c.pending[i].deadline != c.pending[j].deadline {
			return c.pending[i].deadline < c.pending[j].deadline
		}
		return c.pending[i].seq < c.pending[j].seq
	})
}

// PendingCount returns the number of live pending callbacks.
func (c *ManualClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.pending {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

var (
	_ Clock = RealClock{}
	_ Clock = (*ManualClock)(nil)
)
