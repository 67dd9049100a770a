package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManualFiresDueTimersInOrder(t *testing.T) {
	c := NewManual(time.Unix(0, 0))

	var fired []string
	c.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
	c.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	c.AfterFunc(5*time.Second, func() { fired = append(fired, "c") })

	c.Advance(time.Second)
	require.Equal(t, []string{"a"}, fired)

	c.Advance(3 * time.Second)
	require.Equal(t, []string{"a", "b"}, fired)
	require.Equal(t, 1, c.Pending())
}

func TestManualStopPreventsFiring(t *testing.T) {
	c := NewManual(time.Unix(0, 0))

	fired := false
	tm := c.AfterFunc(time.Second, func() { fired = true })

	require.True(t, tm.Stop())
	require.False(t, tm.Stop())

	c.Advance(time.Minute)
	require.False(t, fired)
	require.Zero(t, c.Pending())
}

func TestManualTimerFiresOnce(t *testing.T) {
	c := NewManual(time.Unix(0, 0))

	n := 0
	tm := c.AfterFunc(time.Second, func() { n++ })

	c.Advance(time.Second)
	c.Advance(time.Second)
	require.Equal(t, 1, n)
	require.False(t, tm.Stop())
}

func TestManualCallbackStopsLaterTimer(t *testing.T) {
	c := NewManual(time.Unix(0, 0))

	var second Timer
	secondFired := false
	c.AfterFunc(time.Second, func() { second.Stop() })
	second = c.AfterFunc(2*time.Second, func() { secondFired = true })

	c.Advance(10 * time.Second)
	require.False(t, secondFired)
}

func TestMillisRoundTrip(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_123)
	require.Equal(t, int64(1_700_000_000_123), Millis(at))
	require.True(t, Epoch(Millis(at)).Equal(at))
	require.Zero(t, Millis(time.Time{}))
}
