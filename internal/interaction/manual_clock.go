package interaction

import (
	"sync"
	"time"
)

// ManualClock is a virtual clock whose time only moves when Advance is called.
// Callbacks run synchronously on the goroutine calling Advance, in deadline
// order, so timer-driven transitions can be tested deterministically.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	clock    *ManualClock
	deadline time.Time
	seq      uint64
	f        func()
	done     bool
}

// NewManualClock creates a virtual clock starting at start
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the virtual time
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f to run once virtual time reaches Now()+d
func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &manualTimer{
		clock:    c,
		deadline: c.now.Add(d),
		seq:      c.seq,
		f:        f,
	}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves virtual time forward by d, firing every timer that falls due.
// Timers scheduled by a callback fire in the same call if they are due.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)

	for {
		next := c.nextDue(target)
		if next == nil {
			break
		}
		next.done = true
		if next.deadline.After(c.now) {
			c.now = next.deadline
		}
		c.mu.Unlock()
		next.f()
		c.mu.Lock()
	}

	c.now = target
	c.compact()
	c.mu.Unlock()
}

// Pending returns the number of timers that have neither fired nor been stopped
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.done {
			n++
		}
	}
	return n
}

// nextDue returns the earliest live timer with a deadline at or before target.
// Caller holds c.mu.
func (c *ManualClock) nextDue(target time.Time) *manualTimer {
	var next *manualTimer
	for _, t := range c.timers {
		if t.done || t.deadline.After(target) {
			continue
		}
		if next == nil || t.deadline.Before(next.deadline) ||
			(t.deadline.Equal(next.deadline) && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

// compact drops finished timers. Caller holds c.mu.
func (c *ManualClock) compact() {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.done {
			live = append(live, t)
		}
	}
	c.timers = live
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	return true
}
