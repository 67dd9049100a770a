// Package metrics exposes cache events as Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/krisalay/storage-cache/types"
)

// Prometheus implements types.Metrics with one counter per event.
type Prometheus struct {
	Hits        prometheus.Counter
	Misses      prometheus.Counter
	Refreshes   prometheus.Counter
	Expirations prometheus.Counter
	Evictions   prometheus.Counter
	LoadErrors  prometheus.Counter
	WriteErrors prometheus.Counter
}

var _ types.Metrics = (*Prometheus)(nil)

// NewPrometheus registers the cache counters under namespace with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheus(namespace string, reg prometheus.Registerer) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	counter := func(name, help string) prometheus.Counter {
		return f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      name,
			Help:      help,
		})
	}

	return &Prometheus{
		Hits:        counter("hits_total", "Reads served from memory"),
		Misses:      counter("misses_total", "Reads that called the loader"),
		Refreshes:   counter("refreshes_total", "Expiry extensions on hit"),
		Expirations: counter("expirations_total", "Entries removed by their eviction timer"),
		Evictions:   counter("evictions_total", "Entries removed explicitly"),
		LoadErrors:  counter("load_errors_total", "Failed loader calls"),
		WriteErrors: counter("write_errors_total", "Failed storage writes"),
	}
}

func (p *Prometheus) Hit()        { p.Hits.Inc() }
func (p *Prometheus) Miss()       { p.Misses.Inc() }
func (p *Prometheus) Refresh()    { p.Refreshes.Inc() }
func (p *Prometheus) Expire()     { p.Expirations.Inc() }
func (p *Prometheus) Eviction()   { p.Evictions.Inc() }
func (p *Prometheus) LoadError()  { p.LoadErrors.Inc() }
func (p *Prometheus) WriteError() { p.WriteErrors.Inc() }
