package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/krisalay/storage-cache/clock"
)

func TestTimersRescheduleCancelsPrevious(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))
	timers := NewTimers(clk)

	var fired []*Handle
	fire := func(key string, h *Handle) {
		if timers.Owns(key, h) {
			fired = append(fired, h)
		}
	}

	timers.Reschedule("a", time.Second, fire)
	timers.Reschedule("a", 3*time.Second, fire)
	require.Equal(t, 1, clk.Pending())
	require.Equal(t, 1, timers.Len())

	clk.Advance(2 * time.Second)
	require.Empty(t, fired)

	clk.Advance(time.Second)
	require.Len(t, fired, 1)
}

func TestTimersStaleHandleIsNotOwner(t *testing.T) {
	timers := NewTimers(clock.NewManual(time.Unix(0, 0)))
	noop := func(string, *Handle) {}

	timers.Reschedule("a", time.Second, noop)
	first := timers.pending["a"]

	timers.Reschedule("a", time.Second, noop)
	require.False(t, timers.Owns("a", first))
	require.True(t, timers.Owns("a", timers.pending["a"]))
}

func TestTimersCancelAndStop(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))
	timers := NewTimers(clk)
	noop := func(string, *Handle) {}

	timers.Reschedule("a", time.Second, noop)
	timers.Reschedule("b", time.Second, noop)

	timers.Cancel("a")
	timers.Cancel("a")
	timers.Cancel("missing")
	require.False(t, timers.Has("a"))
	require.True(t, timers.Has("b"))

	timers.Stop()
	require.Zero(t, timers.Len())
	require.Zero(t, clk.Pending())
}
