package engine

import (
	"context"
	"time"

	"github.com/krisalay/storage-cache/clock"
	"github.com/krisalay/storage-cache/expiration"
	"github.com/krisalay/storage-cache/refresh"
	"github.com/krisalay/storage-cache/types"
)

/*
CacheEngine is the "brain" of the cache system.
It is responsible for the "behavior" of the cache, NOT storage.
This acts as the policy layer.

It decides:
- When data is expired
- How the expiry deadline moves on reads/writes
- When refresh hooks are triggered
- How data is loaded on cache miss
- How metrics are recorded

It does NOT:
- Store data
- Handle locking
- Own eviction timers (see Timers)
*/
type CacheEngine[T any] struct {

	// Expiration controls when a cache entry should be considered “too old”.
	Expiration expiration.Strategy

	// Refresh is an optional hook that runs when a hit slides an entry's expiry.
	// If nil, no refresh logic is executed.
	Refresh refresh.Hook

	// Loader is how the cache talks to the outside world when it does NOT have the data.
	Loader types.Loader[T]

	// Clock is the time source for every deadline computation.
	Clock clock.Clock

	// Metrics is how we keep track of what the cache is doing.
	Metrics types.Metrics
}

/*
NewCacheEngine creates a CacheEngine.
*/
func NewCacheEngine[T any](
	exp expiration.Strategy,
	refresh refresh.Hook,
	loader types.Loader[T],
	clk clock.Clock,
	metrics types.Metrics,
) *CacheEngine[T] {

	// Ensure every collaborator is non-nil so callers never branch on it
	if exp == nil {
		exp = expiration.NewExpireAfterAccess(expiration.DefaultTTL)
	}
	if clk == nil {
		clk = clock.Default
	}
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}

	return &CacheEngine[T]{
		Expiration: exp,
		Refresh:    refresh,
		Loader:     loader,
		Clock:      clk,
		Metrics:    metrics,
	}
}

// Now reads the configured clock.
func (e *CacheEngine[T]) Now() time.Time {
	return e.Clock.Now()
}

/*
IsExpired checks whether a cache entry is expired at the current clock time.
*/
func (e *CacheEngine[T]) IsExpired(ent types.CacheEntry[T]) bool {
	return e.Expiration.IsExpired(ent.ExpiresAt, e.Clock.Now())
}

/*
OnRead is called every time the cache serves a hit.
It pushes the entry's deadline forward and returns the delay until that deadline,
which the caller uses to reschedule the eviction timer.
*/
func (e *CacheEngine[T]) OnRead(ent *types.CacheEntry[T]) time.Duration {
	now := e.Clock.Now()
	ent.ExpiresAt = e.Expiration.OnAccess(now)
	e.Metrics.Refresh()
	return ent.ExpiresAt.Sub(now)
}

/*
OnWrite is called whenever something is written to the cache.
It stamps the entry's deadline and returns the delay until it.
*/
func (e *CacheEngine[T]) OnWrite(ent *types.CacheEntry[T]) time.Duration {
	now := e.Clock.Now()
	ent.ExpiresAt = e.Expiration.OnWrite(now)
	return ent.ExpiresAt.Sub(now)
}

/*
NotifyRead runs the refresh hook, if any. It must be called outside the cache lock.
*/
func (e *CacheEngine[T]) NotifyRead(key string, expiresAt time.Time) {
	if e.Refresh != nil {
		e.Refresh.OnRead(key, expiresAt)
	}
}

/*
Load is used when the cache does NOT have the data.

This usually means:
- A database call
- A network request
*/
func (e *CacheEngine[T]) Load(ctx context.Context, key string) (T, error) {
	v, err := e.Loader.Load(ctx, key)
	if err != nil {
		e.Metrics.LoadError()
	}
	return v, err
}
