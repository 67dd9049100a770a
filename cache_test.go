package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	cache "github.com/krisalay/storage-cache"
	"github.com/krisalay/storage-cache/storage"
)

//
// ================= TEST BACKING STORE =================
//

var errNotInStore = errors.New("not in backing store")

type TestStore struct {
	mu    sync.RWMutex
	data  map[string]string
	loads atomic.Int64
}

func NewTestStore() *TestStore {
	return &TestStore{data: make(map[string]string)}
}

func (s *TestStore) Load(ctx context.Context, key string) (string, error) {
	s.loads.Add(1)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return "", errNotInStore
	}
	return v, nil
}

func (s *TestStore) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

//
// ================= HELPER: CREATE CACHE =================
//

func newTestCache(ttl time.Duration) (*cache.ExpiringCache[string], *TestStore) {
	store := NewTestStore()
	c := cache.New[string](store, cache.Options{TTL: ttl})
	return c, store
}

//
// ================= BASIC OPERATIONS =================
//

func TestAddAndRetrieve(t *testing.T) {
	ctx := context.Background()
	c, store := newTestCache(time.Minute)
	defer c.Close()

	if v := c.Set("key1", "value1"); v != "value1" {
		t.Fatalf("set should return the stored value, got %v", v)
	}

	v, err := c.Get(ctx, "key1")
	if err != nil || v != "value1" {
		t.Fatalf("expected value1, got %v (%v)", v, err)
	}
	if store.loads.Load() != 0 {
		t.Fatalf("hit must not call the loader")
	}
}

func TestRetrieveNonExistentKey(t *testing.T) {
	ctx := context.Background()
	c, store := newTestCache(time.Minute)
	defer c.Close()

	// backing store has value
	store.Put("keyX", "store-value")

	v, err := c.Get(ctx, "keyX")
	if err != nil || v != "store-value" {
		t.Fatalf("expected store-value, got %v (%v)", v, err)
	}

	// missing in both cache and store
	_, err = c.Get(ctx, "missing")
	if !errors.Is(err, errNotInStore) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if c.Has("missing") {
		t.Fatalf("failed load must not be cached")
	}
}

func TestUpdateExistingKey(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(time.Minute)
	defer c.Close()

	c.Set("key1", "value1")
	c.Set("key1", "value2")

	v, _ := c.Get(ctx, "key1")
	if v != "value2" {
		t.Fatalf("expected value2, got %v", v)
	}
}

func TestRemoveKey(t *testing.T) {
	ctx := context.Background()
	c, store := newTestCache(time.Minute)
	defer c.Close()

	c.Set("key1", "value1")
	c.Remove("key1")
	c.Remove("key1")

	if c.Has("key1") {
		t.Fatalf("expected key1 to be gone")
	}

	// the next read goes back to the loader
	store.Put("key1", "reloaded")
	v, _ := c.Get(ctx, "key1")
	if v != "reloaded" {
		t.Fatalf("expected reloaded, got %v", v)
	}
}

//
// ================= TTL TEST =================
//

func TestTTLExpiration(t *testing.T) {
	c, _ := newTestCache(50 * time.Millisecond)
	defer c.Close()

	c.Set("ttlKey", "temp")

	time.Sleep(150 * time.Millisecond)

	if c.Has("ttlKey") {
		t.Fatalf("expected ttlKey to expire")
	}
	if c.Len() != 0 {
		t.Fatalf("expected the eviction timer to remove ttlKey, len=%d", c.Len())
	}
}

//
// ================= CONCURRENCY TEST =================
//

func TestConcurrentGet(t *testing.T) {
	ctx := context.Background()
	store := NewTestStore()
	store.Put("key", "value")
	c := cache.New[string](store, cache.Options{TTL: time.Minute, Coalesce: true})
	defer c.Close()

	wg := sync.WaitGroup{}

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _ := c.Get(ctx, "key")
			if v != "value" {
				t.Errorf("expected value, got %v", v)
			}
		}()
	}

	wg.Wait()
}

func TestConcurrentMutation(t *testing.T) {
	ctx := context.Background()
	store := NewTestStore()
	store.Put("shared", "v")
	c := cache.New[string](store, cache.Options{TTL: 5 * time.Millisecond})
	defer c.Close()

	wg := sync.WaitGroup{}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				switch j % 4 {
				case 0:
					c.Set("shared", "v")
				case 1:
					_, _ = c.Get(ctx, "shared")
				case 2:
					c.Remove("shared")
				default:
					c.Has("shared")
				}
			}
		}(i)
	}
	wg.Wait()

	c.Flush()
	if c.Len() != 0 {
		t.Fatalf("expected empty cache after flush, len=%d", c.Len())
	}
}

//
// ================= STORAGE MIRRORING =================
//

func TestMirroredRestart(t *testing.T) {
	ctx := context.Background()
	backing := NewTestStore()
	backing.Put("a", "alpha")
	mem := storage.NewMemory()

	first := cache.NewMirrored[string](backing, mem, "restart", cache.Options{TTL: time.Minute})
	if _, err := first.Get(ctx, "a"); err != nil {
		t.Fatalf("get: %v", err)
	}
	first.Close()

	second := cache.NewMirrored[string](backing, mem, "restart", cache.Options{TTL: time.Minute})
	defer second.Close()

	v, err := second.Get(ctx, "a")
	if err != nil || v != "alpha" {
		t.Fatalf("expected alpha from storage, got %v (%v)", v, err)
	}
	if backing.loads.Load() != 1 {
		t.Fatalf("expected a single loader call, got %d", backing.loads.Load())
	}
}
