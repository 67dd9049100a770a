package writepolicy

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/krisalay/storage-cache/storage"
)

// This file implements the "write-back" policy.

// ErrClosed is returned by OnWrite after Close.
var ErrClosed = errors.New("writepolicy: closed")

// writeReq represents one pending snapshot that needs to be sent to storage.
type writeReq struct {
	ctx  context.Context
	key  string
	blob string
}

/*
WriteBackPolicy manages asynchronous snapshot writes to storage.

Snapshots are whole states, so losing an intermediate one is harmless as long as a
later one arrives: the newest snapshot always describes the full cache.
*/
type WriteBackPolicy struct {

	// store is the storage engine the worker writes to.
	store storage.Storage

	// ch is a buffered channel that holds pending snapshots.
	ch chan writeReq

	// logger reports failed background writes.
	logger *log.Logger

	// wg is used to wait for the worker to finish during shutdown.
	wg sync.WaitGroup

	// mu guards closed; senders hold it shared so Close never closes ch under them.
	mu     sync.RWMutex
	closed bool
}

// NewWriteBackPolicy creates a new write-back policy and starts its worker.
// A nil logger falls back to log.Default().
func NewWriteBackPolicy(store storage.Storage, buffer int, logger *log.Logger) *WriteBackPolicy {
	if logger == nil {
		logger = log.Default()
	}
	w := &WriteBackPolicy{
		store:  store,
		ch:     make(chan writeReq, buffer),
		logger: logger,
	}

	// Start one background worker
	w.wg.Add(1)
	go w.worker()

	return w
}

// OnWrite pushes the snapshot into the queue. If the queue is full the snapshot is
// DROPPED; the next mutation enqueues a newer, complete one.
func (w *WriteBackPolicy) OnWrite(ctx context.Context, key, blob string) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return ErrClosed
	}

	select {
	case w.ch <- writeReq{ctx, key, blob}:
	default:
		w.logger.Printf("writepolicy: write-back queue full, dropped snapshot for %q", key)
	}
	return nil
}

/*
worker runs in the background and processes queued snapshots in order.
*/
func (w *WriteBackPolicy) worker() {
	defer w.wg.Done()

	for req := range w.ch {
		if err := w.store.SetItem(req.key, req.blob); err != nil {
			w.logger.Printf("writepolicy: write-back of %q failed: %v", req.key, err)
		}
	}
}

/*
Close shuts down the write-back policy gracefully.
------------------
1. Close the channel (no more writes accepted)
2. Wait for the worker to finish processing queued writes

Without this, pending writes could be lost when the application shuts down.
Close is safe to call more than once; OnWrite after it returns ErrClosed.
*/
func (w *WriteBackPolicy) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.ch)
	w.mu.Unlock()

	w.wg.Wait()
}
