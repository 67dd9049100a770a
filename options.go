package cache

import (
	"log"
	"time"

	"github.com/krisalay/storage-cache/clock"
	"github.com/krisalay/storage-cache/expiration"
	"github.com/krisalay/storage-cache/refresh"
	"github.com/krisalay/storage-cache/types"
	"github.com/krisalay/storage-cache/writepolicy"
)

// Options configures a cache. The zero value is usable.
type Options struct {
	// TTL is the lifetime of every entry, measured from its last write or hit.
	// Zero means expiration.DefaultTTL (15 minutes).
	TTL time.Duration

	// Clock is the time source. Nil means the wall clock.
	Clock clock.Clock

	// Scheduler runs eviction timers. Nil means Clock, if it can schedule,
	// otherwise the runtime timers.
	Scheduler clock.Scheduler

	// Metrics receives cache events. Nil means no metrics.
	Metrics types.Metrics

	// Refresh is called on every hit after the expiry slides. Optional.
	Refresh refresh.Hook

	// Coalesce makes concurrent misses for the same key share one loader call.
	Coalesce bool

	// Logger reports failures that have no caller to return to, like a failed
	// write-through after a timer eviction. Nil means log.Default().
	Logger *log.Logger

	// WritePolicy decides when a MirroredCache snapshot reaches storage.
	// Nil means write-through. Ignored by ExpiringCache.
	WritePolicy writepolicy.WritePolicy
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = expiration.DefaultTTL
	}
	if o.Clock == nil {
		o.Clock = clock.Default
	}
	if o.Scheduler == nil {
		if s, ok := o.Clock.(clock.Scheduler); ok {
			o.Scheduler = s
		} else {
			o.Scheduler = clock.Default
		}
	}
	if o.Metrics == nil {
		o.Metrics = types.NoopMetrics{}
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}
