// Package storage defines the key/blob persistence contract the caches mirror their state to,
// plus the concrete engines that implement it.
package storage

import "errors"

// ErrNotFound is returned by GetItem when nothing is stored under the key.
var ErrNotFound = errors.New("storage: item not found")

/*
Storage is the persistence engine a cache writes its serialized state to.

Each cache instance owns exactly one key. Several caches may share one engine under
distinct keys. No atomicity is assumed beyond last-write-wins per key.
*/
type Storage interface {
	// GetItem returns the blob stored under key, or ErrNotFound.
	GetItem(key string) (string, error)

	// SetItem replaces the blob stored under key.
	SetItem(key, value string) error
}
