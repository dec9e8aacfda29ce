package interaction

import "time"

// Timer is a scheduled callback that can be cancelled before it fires
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or the timer was already stopped.
	Stop() bool
}

// Clock schedules the delayed cart transitions
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock is backed by the runtime timers
type RealClock struct{}

// Now returns the current wall time
func (RealClock) Now() time.Time {
	return time.Now()
}

// AfterFunc runs f on its own goroutine after d
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
