package types

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/krisalay/storage-cache/clock"
)

// CacheEntry is one cached value and the absolute time it stops being valid.
// ExpiresAt is recomputed as now + TTL on every write or refresh.
type CacheEntry[T any] struct {
	Value     T
	ExpiresAt time.Time
}

// persistedEntry is the stored shape: {"val": <T>, "ttl": <epoch ms>}.
type persistedEntry[T any] struct {
	Val T     `json:"val"`
	TTL int64 `json:"ttl"`
}

func (e CacheEntry[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(persistedEntry[T]{Val: e.Value, TTL: clock.Millis(e.ExpiresAt)})
}

func (e *CacheEntry[T]) UnmarshalJSON(b []byte) error {
	var p persistedEntry[T]
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	e.Value = p.Val
	e.ExpiresAt = clock.Epoch(p.TTL)
	return nil
}
