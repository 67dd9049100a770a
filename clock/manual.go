package clock

import (
	"sync"
	"time"
)

/*
Manual is a Clock and Scheduler that only moves when told to.

Timers scheduled on a Manual clock fire synchronously from Advance or Set,
on the goroutine that moved the clock, in deadline order.
*/
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers map[uint64]*manualTimer
}

type manualTimer struct {
	c        *Manual
	id       uint64
	deadline time.Time
	f        func()
}

func NewManual(start time.Time) *Manual {
	return &Manual{
		now:    start,
		timers: make(map[uint64]*manualTimer),
	}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &manualTimer{c: m, id: m.seq, deadline: m.now.Add(d), f: f}
	m.timers[t.id] = t
	return t
}

// Pending returns how many timers are scheduled and not yet fired or stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Advance moves the clock forward by d and fires every timer that became due.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	to := m.now.Add(d)
	m.mu.Unlock()
	m.Set(to)
}

// Set moves the clock to t and fires every timer that became due.
// Moving the clock backwards fires nothing.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()

	// one timer at a time: a callback may stop or schedule other timers
	for {
		tm := m.nextDue()
		if tm == nil {
			return
		}
		tm.f()
	}
}

// nextDue removes and returns the earliest timer whose deadline has passed.
func (m *Manual) nextDue() *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()

	var next *manualTimer
	for _, tm := range m.timers {
		if tm.deadline.After(m.now) {
			continue
		}
		if next == nil ||
			tm.deadline.Before(next.deadline) ||
			(tm.deadline.Equal(next.deadline) && tm.id < next.id) {
			next = tm
		}
	}
	if next != nil {
		delete(m.timers, next.id)
	}
	return next
}

func (t *manualTimer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()

	if _, ok := t.c.timers[t.id]; !ok {
		return false
	}
	delete(t.c.timers, t.id)
	return true
}
