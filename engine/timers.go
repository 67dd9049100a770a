package engine

import (
	"time"

	"github.com/krisalay/storage-cache/clock"
)

/*
Timers owns every eviction timer of one cache. It is the single place where timers
are scheduled and canceled, so the cancel-before-fire rule lives here only:

  - Reschedule always stops the previous timer for a key before scheduling a new one.
  - A timer that already started firing when it was stopped finds that it no longer
    Owns its key and must do nothing.

Timers is not safe for concurrent use. The cache calls it with its own lock held,
and the fire callbacks must take that lock before calling Owns.
*/
type Timers struct {
	sched   clock.Scheduler
	pending map[string]*Handle
}

// Handle identifies one scheduled eviction.
type Handle struct {
	timer clock.Timer
}

func NewTimers(sched clock.Scheduler) *Timers {
	if sched == nil {
		sched = clock.Default
	}
	return &Timers{
		sched:   sched,
		pending: make(map[string]*Handle),
	}
}

/*
Reschedule cancels any timer for key, then schedules fire(key, h) after delay.
A non-positive delay still goes through the scheduler so the callback never runs
on the caller's goroutine while the cache lock is held.
*/
func (t *Timers) Reschedule(key string, delay time.Duration, fire func(key string, h *Handle)) {
	t.Cancel(key)

	if delay < 0 {
		delay = 0
	}

	h := &Handle{}
	t.pending[key] = h
	h.timer = t.sched.AfterFunc(delay, func() { fire(key, h) })
}

// Cancel stops and forgets the timer for key. Unknown keys are a no-op.
func (t *Timers) Cancel(key string) {
	h, ok := t.pending[key]
	if !ok {
		return
	}
	if h.timer != nil {
		h.timer.Stop()
	}
	delete(t.pending, key)
}

// Owns reports whether h is still the live timer for key.
func (t *Timers) Owns(key string, h *Handle) bool {
	return t.pending[key] == h
}

// Has reports whether key has a live timer.
func (t *Timers) Has(key string) bool {
	_, ok := t.pending[key]
	return ok
}

func (t *Timers) Len() int {
	return len(t.pending)
}

// Stop cancels every pending timer.
func (t *Timers) Stop() {
	for key := range t.pending {
		t.Cancel(key)
	}
}
