package clock

import (
	"time"

	"go.uber.org/fx"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Clock is an interface that abstracts the functionality for measuring and scheduling time.
type Clock interface {
	// Now returns the current local time.
	Now() time.Time
	// Sleep pauses the current goroutine for at least the duration d. A negative or zero duration causes Sleep to return immediately.
	Sleep(duration time.Duration)
	// AfterFunc waits for the duration to elapse and then calls f in its own goroutine.
	AfterFunc(duration time.Duration, f func()) Timer
}

// Timer is a handle to a callback scheduled with AfterFunc.
type Timer interface {
	// Stop prevents the callback from firing. It returns false if the callback already fired or was stopped.
	Stop() bool
}

type clock struct{}

// New creates a new instance of Clock.
func New() Clock {
	return clock{}
}

func (clock) Now() time.Time {
	return time.Now()
}

func (clock) Sleep(duration time.Duration) {
	time.Sleep(duration)
}

func (clock) AfterFunc(duration time.Duration, f func()) Timer {
	return time.AfterFunc(duration, f)
}
