package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/krisalay/storage-cache/storage"
	"github.com/krisalay/storage-cache/types"
	"github.com/krisalay/storage-cache/writepolicy"
)

// DefaultStorageKey is the storage key used when NewMirrored gets an empty one.
const DefaultStorageKey = "AsyncStorageEngine"

// ErrClosed is returned by writes to a MirroredCache after Close.
var ErrClosed = errors.New("cache: closed")

/*
MirroredCache is an ExpiringCache whose entries survive restarts.

The whole entry map is stored as one JSON object under a single storage key:

	{"<id>": {"val": <value>, "ttl": <expiry as epoch ms>}, ...}

Construction reads that object back, drops whatever already expired and reschedules
the rest. Every mutation (Set, Remove, Flush, a load on miss, a timer eviction)
writes the full snapshot again through the configured write policy.

A hit slides the expiry in memory but does NOT write, so stored expiries can lag
behind memory until the next mutation. After a restart such an entry may be dropped
earlier than it would have been in memory.
*/
type MirroredCache[T any] struct {
	cache   *ExpiringCache[T]
	store   storage.Storage
	key     string
	policy  writepolicy.WritePolicy
	metrics types.Metrics
	logger  *log.Logger

	// writeMu keeps snapshot-then-write atomic, so an older snapshot never lands after a newer one.
	// It also guards closed.
	writeMu sync.Mutex
	closed  bool
}

// NewMirrored builds a MirroredCache over store, seeded from whatever is stored under key.
func NewMirrored[T any](loader types.Loader[T], store storage.Storage, key string, opts Options) *MirroredCache[T] {
	if key == "" {
		key = DefaultStorageKey
	}
	opts = opts.withDefaults()

	policy := opts.WritePolicy
	if policy == nil {
		policy = writepolicy.NewWriteThroughPolicy(store)
	}

	m := &MirroredCache[T]{
		store:   store,
		key:     key,
		policy:  policy,
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}

	m.cache = newExpiringCache(loader, opts)
	m.cache.onChange = m.mirror

	// the hook must be in place before any reconciled timer can fire
	if dropped := m.cache.reconcile(m.Read()); dropped > 0 {
		m.mirror()
	}
	return m
}

/*
Read decodes the stored entry map.
A missing key, a storage failure, or a malformed blob all read as an empty map.
*/
func (m *MirroredCache[T]) Read() map[string]types.CacheEntry[T] {
	entries := make(map[string]types.CacheEntry[T])

	blob, err := m.store.GetItem(m.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			m.logger.Printf("cache: reading %q failed, starting empty: %v", m.key, err)
		}
		return entries
	}

	var stored map[string]types.CacheEntry[T]
	if err := json.Unmarshal([]byte(blob), &stored); err != nil {
		m.logger.Printf("cache: %q holds malformed data, starting empty: %v", m.key, err)
		return entries
	}
	for k, v := range stored {
		entries[k] = v
	}
	return entries
}

// Write stores the full current entry map. After Close it stores nothing and returns ErrClosed.
func (m *MirroredCache[T]) Write(ctx context.Context) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if m.closed {
		return ErrClosed
	}

	blob, err := json.Marshal(m.cache.Snapshot())
	if err != nil {
		m.metrics.WriteError()
		return fmt.Errorf("encode %q: %w", m.key, err)
	}
	if err := m.policy.OnWrite(ctx, m.key, string(blob)); err != nil {
		m.metrics.WriteError()
		return fmt.Errorf("write %q: %w", m.key, err)
	}
	return nil
}

// mirror writes after mutations that have no caller to report to.
// A load or timer that finishes after Close has nothing left to write to.
func (m *MirroredCache[T]) mirror() {
	if err := m.Write(context.Background()); err != nil && !errors.Is(err, ErrClosed) {
		m.logger.Printf("cache: %v", err)
	}
}

/*
Set stores value, then writes the snapshot.
The value is in memory even when the write fails; the error only reports that storage lags.
*/
func (m *MirroredCache[T]) Set(ctx context.Context, key string, value T) (T, error) {
	m.cache.set(key, value)
	return value, m.Write(ctx)
}

// Remove evicts key, then writes the snapshot. Removing a missing key still writes.
func (m *MirroredCache[T]) Remove(ctx context.Context, key string) error {
	m.cache.remove(key)
	return m.Write(ctx)
}

// Flush removes every entry, then writes the (empty) snapshot.
func (m *MirroredCache[T]) Flush(ctx context.Context) error {
	m.cache.flush()
	return m.Write(ctx)
}

// Get behaves like ExpiringCache.Get. A load on miss is written through; a hit is not.
func (m *MirroredCache[T]) Get(ctx context.Context, key string) (T, error) {
	return m.cache.Get(ctx, key)
}

func (m *MirroredCache[T]) Has(key string) bool { return m.cache.Has(key) }

func (m *MirroredCache[T]) TTL(key string) time.Duration { return m.cache.TTL(key) }

func (m *MirroredCache[T]) Len() int { return m.cache.Len() }

func (m *MirroredCache[T]) Keys() []string { return m.cache.Keys() }

func (m *MirroredCache[T]) Entry(key string) (types.CacheEntry[T], bool) {
	return m.cache.Entry(key)
}

// QueueRemoval reschedules the eviction of key. It does not write.
func (m *MirroredCache[T]) QueueRemoval(key string, ttl time.Duration) {
	m.cache.QueueRemoval(key, ttl)
}

/*
Close stops eviction timers and drains the write policy.

A Get whose loader is still running still stores its value in memory when it returns,
but nothing more reaches storage. Close is safe to call more than once.
*/
func (m *MirroredCache[T]) Close() {
	m.cache.Close()

	m.writeMu.Lock()
	if m.closed {
		m.writeMu.Unlock()
		return
	}
	m.closed = true
	m.writeMu.Unlock()

	m.policy.Close()
}
