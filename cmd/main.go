package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cache "github.com/krisalay/storage-cache"
	"github.com/krisalay/storage-cache/metrics"
	"github.com/krisalay/storage-cache/storage"
)

// ================= BACKING SERVICE =================

// UserService stands in for a slow remote API.
type UserService struct {
	mu    sync.Mutex
	data  map[string]string
	calls int
}

var errNoSuchUser = errors.New("no such user")

func (s *UserService) Load(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	fmt.Println("SERVICE → load:", id)

	select {
	case <-time.After(20 * time.Millisecond):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	v, ok := s.data[id]
	if !ok {
		return "", errNoSuchUser
	}
	return v, nil
}

// ================= MAIN =================

func main() {
	dbPath := flag.String("db", "cache-demo.db", "sqlite file backing the cache")
	key := flag.String("key", "users", "storage key the cache is mirrored under")
	ttl := flag.Duration("ttl", 2*time.Second, "entry time-to-live")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	flag.Parse()

	ctx := context.Background()

	fmt.Println("\n==================== SYSTEM BOOT ====================")
	fmt.Println("STORAGE         :", *dbPath)
	fmt.Println("STORAGE KEY     :", *key)
	fmt.Println("TTL             :", *ttl)
	fmt.Println("WRITE POLICY    : WRITE-THROUGH")

	// ---------------- Storage ----------------
	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer db.Close()

	// ---------------- Metrics ----------------
	reg := prometheus.NewRegistry()
	m := metrics.NewPrometheus("demo", reg)
	if *metricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			log.Printf("Serving metrics on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				log.Printf("Metrics server stopped: %v", err)
			}
		}()
	}

	// ---------------- Cache ----------------
	service := &UserService{data: map[string]string{"a": "alpha", "b": "beta"}}
	opts := cache.Options{TTL: *ttl, Metrics: m, Coalesce: true}

	users := cache.NewMirrored[string](service, db, *key, opts)
	fmt.Println("CACHE  → restored keys:", users.Keys())

	// ====================================================
	fmt.Println("\n==================== 1) CACHE MISS ====================")
	v, err := users.Get(ctx, "a")
	fmt.Println("CACHE  → GET a =", v, err)

	// ====================================================
	fmt.Println("\n==================== 2) CACHE HIT ====================")
	v, err = users.Get(ctx, "a")
	fmt.Println("CACHE  → GET a =", v, err)
	fmt.Println("CACHE  → TTL a =", users.TTL("a"))

	// ====================================================
	fmt.Println("\n==================== 3) LOADER FAILURE ====================")
	_, err = users.Get(ctx, "nobody")
	fmt.Println("CACHE  → GET nobody error =", err, "| cached:", users.Has("nobody"))

	// ====================================================
	fmt.Println("\n==================== 4) SINGLEFLIGHT ====================")
	wg := sync.WaitGroup{}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			val, _ := users.Get(ctx, "b")
			fmt.Printf("GOROUTINE-%d → GET b = %v\n", id, val)
		}(i)
	}
	wg.Wait()

	// ====================================================
	fmt.Println("\n==================== 5) REMOVE ====================")
	if err := users.Remove(ctx, "b"); err != nil {
		log.Printf("Remove failed: %v", err)
	}
	fmt.Println("CACHE  → REMOVE b | cached:", users.Has("b"))

	// ====================================================
	fmt.Println("\n==================== 6) RESTART ====================")
	users.Close()
	users = cache.NewMirrored[string](service, db, *key, opts)
	fmt.Println("CACHE  → restored keys:", users.Keys())
	v, _ = users.Get(ctx, "a")
	fmt.Println("CACHE  → GET a after restart =", v)

	// ====================================================
	fmt.Println("\n==================== 7) TTL EXPIRATION ====================")
	time.Sleep(*ttl + 100*time.Millisecond)
	fmt.Println("CACHE  → keys after TTL:", users.Keys())

	// ====================================================
	fmt.Println("\n==================== 8) RECENT LIST ====================")
	recent := cache.NewList[string]("recent-users", 3, db)
	for _, id := range []string{"a", "b", "a", "c"} {
		if err := recent.Unshift(id); err != nil {
			log.Printf("Unshift failed: %v", err)
		}
	}
	fmt.Println("LIST   → recent =", recent.Get())

	// ====================================================
	fmt.Println("\n==================== SERVICE CALLS ====================")
	service.mu.Lock()
	fmt.Println("CALLS  :", service.calls)
	service.mu.Unlock()

	// ====================================================
	fmt.Println("\n==================== SHUTDOWN ====================")
	users.Close()
	fmt.Println("SYSTEM → cache closed cleanly")
}
