package types

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle. The cache will call these methods whenever something happens.
*/
type Metrics interface {

	// Hit is called when the cache returns a live value without calling the loader.
	Hit()

	// Miss is called when the cache does NOT find a live key and has to call the loader.
	Miss()

	// Refresh is called when a hit pushes the entry's expiry forward (sliding TTL).
	Refresh()

	// Expire is called when an eviction timer removes a key that passed its TTL.
	Expire()

	// Eviction is called when a key is removed explicitly (Remove or Flush).
	Eviction()

	// LoadError is called when the loader fails.
	LoadError()

	// WriteError is called when mirroring the cache to storage fails.
	WriteError()
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

We don't want to force every user of the cache to implement metrics,
so this is used whenever none is configured.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()        {}
func (NoopMetrics) Miss()       {}
func (NoopMetrics) Refresh()    {}
func (NoopMetrics) Expire()     {}
func (NoopMetrics) Eviction()   {}
func (NoopMetrics) LoadError()  {}
func (NoopMetrics) WriteError() {}
