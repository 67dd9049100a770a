package writepolicy

import (
	"context"

	"github.com/krisalay/storage-cache/storage"
)

/*
This file implements the "write-through" policy.

Whenever the cache mutates, the snapshot is immediately written to storage.

So the flow is: Cache write → Storage write (synchronous)
*/

/*
WriteThroughPolicy directly forwards every snapshot to storage.
*/
type WriteThroughPolicy struct {

	// store is where snapshots must be persisted immediately.
	store storage.Storage
}

/*
NewWriteThroughPolicy creates a new write-through policy.
*/
func NewWriteThroughPolicy(store storage.Storage) *WriteThroughPolicy {
	return &WriteThroughPolicy{store: store}
}

/*
OnWrite stores the snapshot right away.
  - This call is synchronous
  - If storage is slow, cache mutations become slow
  - A failed write is returned as is; the in-memory state is already updated
*/
func (w *WriteThroughPolicy) OnWrite(ctx context.Context, key, blob string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return w.store.SetItem(key, blob)
}

// Close has nothing to release.
func (w *WriteThroughPolicy) Close() {}
