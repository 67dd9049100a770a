// This file defines where the cache gets its notion of "now" and how it schedules evictions.

package clock

import "time"

/*
Clock is the time source used for all expiration math.
It is injected so tests can control time deterministically.
*/
type Clock interface {
	Now() time.Time
}

/*
Scheduler runs a single callback after a delay.
The returned Timer can cancel the callback before it fires.
*/
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a handle to one scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing.
	// It returns false if the callback already fired or was already stopped.
	Stop() bool
}

// Real uses the wall clock and the runtime timer heap.
type Real struct{}

// Default is the clock used when none is configured.
var Default = Real{}

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Millis converts t to epoch milliseconds, the persisted expiry format.
func Millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// Epoch converts epoch milliseconds back to a time.
func Epoch(ms int64) time.Time {
	return time.UnixMilli(ms)
}
