package cache

import (
	"errors"
	"log"
	"sync"

	"github.com/goccy/go-json"

	"github.com/krisalay/storage-cache/storage"
)

// Unbounded is the ListCache max that keeps every item.
const Unbounded = 0

/*
ListCache is a most-recent-first list capped at max items, stored wholesale as a
JSON array under one storage key. It has no expiry; the cap is the only bound.
*/
type ListCache[T any] struct {
	mu     sync.Mutex
	key    string
	max    int
	store  storage.Storage
	logger *log.Logger
	items  []T
}

// NewList loads the list stored under key, keeping at most max items (max <= 0 keeps all).
func NewList[T any](key string, max int, store storage.Storage) *ListCache[T] {
	return NewListWithLogger[T](key, max, store, nil)
}

// NewListWithLogger is NewList reporting unreadable stored data to logger.
// A nil logger falls back to log.Default().
func NewListWithLogger[T any](key string, max int, store storage.Storage, logger *log.Logger) *ListCache[T] {
	if logger == nil {
		logger = log.Default()
	}
	l := &ListCache[T]{
		key:    key,
		max:    max,
		store:  store,
		logger: logger,
	}
	l.read()
	return l
}

// read loads the stored list. Missing or malformed data reads as an empty list.
func (l *ListCache[T]) read() {
	l.items = nil

	blob, err := l.store.GetItem(l.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			l.logger.Printf("cache: reading list %q failed, starting empty: %v", l.key, err)
		}
		return
	}

	var items []T
	if err := json.Unmarshal([]byte(blob), &items); err != nil {
		l.logger.Printf("cache: list %q holds malformed data, starting empty: %v", l.key, err)
		return
	}
	l.items = l.truncate(items)
}

func (l *ListCache[T]) write() error {
	blob, err := json.Marshal(l.items)
	if err != nil {
		return err
	}
	return l.store.SetItem(l.key, string(blob))
}

func (l *ListCache[T]) truncate(items []T) []T {
	if l.max > 0 && len(items) > l.max {
		return items[:l.max:l.max]
	}
	return items
}

// Get returns a copy of the list, most recent first.
func (l *ListCache[T]) Get() []T {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

func (l *ListCache[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

/*
Unshift puts value at the head, drops whatever falls past max, and stores the list.
The in-memory list is updated even when storing fails.
*/
func (l *ListCache[T]) Unshift(value T) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	items := make([]T, 0, len(l.items)+1)
	items = append(items, value)
	items = append(items, l.items...)
	l.items = l.truncate(items)

	return l.write()
}
