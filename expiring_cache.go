package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/krisalay/storage-cache/engine"
	"github.com/krisalay/storage-cache/expiration"
	"github.com/krisalay/storage-cache/types"
	"golang.org/x/sync/singleflight"
)

/*
ExpiringCache is a key/value cache in front of a Loader, with one TTL for all entries.

It owns two maps keyed by the same ids: the entries and their eviction timers.
Every live entry has exactly one pending timer scheduled for its ExpiresAt; a key
without an entry has no timer. Every method keeps that pair consistent under one mutex.

Reads slide the expiry forward (expire after access). Misses call the Loader and
store the result. A failed load changes nothing.
*/
type ExpiringCache[T any] struct {
	mu      sync.Mutex
	entries map[string]types.CacheEntry[T]
	timers  *engine.Timers

	// engine contains the "rules" of the cache: TTL, refresh, loader, clock, metrics.
	engine *engine.CacheEngine[T]

	ttl      time.Duration
	coalesce bool
	sf       singleflight.Group

	// onChange runs outside the lock after the entry set changed.
	// A MirroredCache uses it to write through loads and timer evictions.
	onChange func()
}

// New builds an empty ExpiringCache.
func New[T any](loader types.Loader[T], opts Options) *ExpiringCache[T] {
	return newExpiringCache(loader, opts)
}

func newExpiringCache[T any](loader types.Loader[T], opts Options) *ExpiringCache[T] {
	opts = opts.withDefaults()

	return &ExpiringCache[T]{
		entries: make(map[string]types.CacheEntry[T]),
		timers:  engine.NewTimers(opts.Scheduler),
		engine: engine.NewCacheEngine(
			expiration.NewExpireAfterAccess(opts.TTL),
			opts.Refresh,
			loader,
			opts.Clock,
			opts.Metrics,
		),
		ttl:      opts.TTL,
		coalesce: opts.Coalesce,
	}
}

/*
reconcile adopts entries that were loaded out-of-band (from storage).
Each one is either rescheduled for its remaining lifetime or dropped if already expired.
It returns how many were dropped.
*/
func (c *ExpiringCache[T]) reconcile(seed map[string]types.CacheEntry[T]) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.engine.Now()
	dropped := 0
	for key, ent := range seed {
		if c.engine.IsExpired(ent) {
			dropped++
			continue
		}
		c.entries[key] = ent
		c.timers.Reschedule(key, ent.ExpiresAt.Sub(now), c.expire)
	}
	return dropped
}

/*
Has reports whether key holds a live entry.

An entry whose deadline has passed is not live even if its eviction timer
has not fired yet.
*/
func (c *ExpiringCache[T]) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.liveLocked(key)
}

func (c *ExpiringCache[T]) liveLocked(key string) bool {
	ent, ok := c.entries[key]
	return ok && !c.engine.IsExpired(ent)
}

/*
Set stores value under key with a fresh deadline of now + TTL and (re)schedules its eviction.
It returns value unchanged, so it can finish a load pipeline.
*/
func (c *ExpiringCache[T]) Set(key string, value T) T {
	c.set(key, value)
	c.changed()
	return value
}

func (c *ExpiringCache[T]) set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent := types.CacheEntry[T]{Value: value}
	delay := c.engine.OnWrite(&ent)
	c.entries[key] = ent
	c.timers.Reschedule(key, delay, c.expire)
}

/*
Remove evicts key and cancels its timer.

This operation is idempotent:
- Removing a non-existing key is safe
*/
func (c *ExpiringCache[T]) Remove(key string) {
	c.remove(key)
	c.changed()
}

func (c *ExpiringCache[T]) remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.removeLocked(key) {
		c.engine.Metrics.Eviction()
	}
}

func (c *ExpiringCache[T]) removeLocked(key string) bool {
	_, ok := c.entries[key]
	c.timers.Cancel(key)
	delete(c.entries, key)
	return ok
}

/*
QueueRemoval reschedules the eviction of key to fire after ttl.
A ttl of zero or less evicts on the next timer tick, without waiting.
Keys that are not cached are ignored, since a timer may only exist for a cached key.

The entry's ExpiresAt is left alone; Has keeps using it.
*/
func (c *ExpiringCache[T]) QueueRemoval(key string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		return
	}
	c.timers.Reschedule(key, ttl, c.expire)
}

// expire is the timer callback. A superseded timer finds it no longer owns key and does nothing.
func (c *ExpiringCache[T]) expire(key string, h *engine.Handle) {
	c.mu.Lock()
	if !c.timers.Owns(key, h) {
		c.mu.Unlock()
		return
	}
	c.removeLocked(key)
	c.mu.Unlock()

	c.engine.Metrics.Expire()
	c.changed()
}

// Flush removes every entry and cancels every timer.
func (c *ExpiringCache[T]) Flush() {
	c.flush()
	c.changed()
}

func (c *ExpiringCache[T]) flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		c.removeLocked(key)
		c.engine.Metrics.Eviction()
	}
	c.timers.Stop()
	c.entries = make(map[string]types.CacheEntry[T])
}

/*
Get returns the value for key.

BEHAVIOR:
-------------------
1. If the key holds a live entry (cache hit):
   - Push its deadline to now + TTL and reschedule its eviction
   - Return the stored value without calling the Loader

2. Otherwise (cache miss):
   - Call the Loader
   - On success, Set the value and return it
   - On failure, return the error and leave the cache untouched

Without Coalesce, concurrent misses for one key each call the Loader and the last Set wins.
With Coalesce, they share the first caller's load (and its ctx).
*/
func (c *ExpiringCache[T]) Get(ctx context.Context, key string) (T, error) {
	if v, ok := c.hit(key); ok {
		return v, nil
	}

	c.engine.Metrics.Miss()

	if !c.coalesce {
		return c.load(ctx, key)
	}

	v, err, _ := c.sf.Do(key, func() (any, error) {
		// a caller that missed just before the previous load finished finds its value here
		if v, ok := c.stored(key); ok {
			return v, nil
		}
		return c.load(ctx, key)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	val, _ := v.(T)
	return val, nil
}

func (c *ExpiringCache[T]) hit(key string) (T, bool) {
	c.mu.Lock()
	if !c.liveLocked(key) {
		c.mu.Unlock()
		var zero T
		return zero, false
	}

	ent := c.entries[key]
	delay := c.engine.OnRead(&ent)
	c.entries[key] = ent
	c.timers.Reschedule(key, delay, c.expire)
	c.mu.Unlock()

	c.engine.Metrics.Hit()
	c.engine.NotifyRead(key, ent.ExpiresAt)
	return ent.Value, true
}

// stored returns the live value for key without refreshing it.
func (c *ExpiringCache[T]) stored(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.liveLocked(key) {
		var zero T
		return zero, false
	}
	return c.entries[key].Value, true
}

func (c *ExpiringCache[T]) load(ctx context.Context, key string) (T, error) {
	v, err := c.engine.Load(ctx, key)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.Set(key, v), nil
}

/*
TTL returns the remaining time-to-live of key.

RETURN VALUES:
-------------------------------------------
> 0   : Duration remaining before expiration
-2    : Key does not exist or is already expired
*/
func (c *ExpiringCache[T]) TTL(key string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.liveLocked(key) {
		return -2
	}
	return c.entries[key].ExpiresAt.Sub(c.engine.Now())
}

// Entry returns the stored entry for key without checking or sliding its expiry.
func (c *ExpiringCache[T]) Entry(key string) (types.CacheEntry[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ent, ok := c.entries[key]
	return ent, ok
}

// Len returns how many entries are stored, including expired ones whose timer has not fired.
func (c *ExpiringCache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Keys returns the stored keys in sorted order.
func (c *ExpiringCache[T]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of every stored entry.
func (c *ExpiringCache[T]) Snapshot() map[string]types.CacheEntry[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]types.CacheEntry[T], len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

// pendingTimers is used by tests to check the entry/timer pairing.
func (c *ExpiringCache[T]) pendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timers.Len()
}

/*
Close cancels every eviction timer. Entries stay in memory but will no longer expire
on their own; the cache must not be used after Close.
*/
func (c *ExpiringCache[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timers.Stop()
}

func (c *ExpiringCache[T]) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}
