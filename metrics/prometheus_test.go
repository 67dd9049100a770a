package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCountsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheus("test", reg)

	m.Hit()
	m.Hit()
	m.Miss()
	m.Expire()
	m.WriteError()

	require.Equal(t, 2.0, testutil.ToFloat64(m.Hits))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Misses))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Expirations))
	require.Equal(t, 1.0, testutil.ToFloat64(m.WriteErrors))
	require.Zero(t, testutil.ToFloat64(m.LoadErrors))

	n, err := testutil.GatherAndCount(reg, "test_cache_hits_total")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestPrometheusRegistersOncePerRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheus("dup", reg)

	require.Panics(t, func() { NewPrometheus("dup", reg) })
	require.NotPanics(t, func() { NewPrometheus("dup", prometheus.NewRegistry()) })
}
