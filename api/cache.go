package cache

import (
	"context"
	"time"
)

/*
Cache defines the read side shared by every loading cache in this module.
All of the details like (expiry timers, loading, and storage mirroring)
are hidden behind this interface.
*/
type Cache[T any] interface {

	/*
		Get retrieves the value associated with the given key.

		BEHAVIOR:
		-------------------
		1. If the key exists in cache and is NOT expired:
		   - Slide its expiry to now + TTL
		   - Return the value immediately (cache hit)

		2. If the key does NOT exist or is expired:
		   - Load the value through the Loader
		   - Store it in cache
		   - Return the value (cache miss)

		Only a failing Loader makes Get fail. The cache is left unchanged then.
	*/
	Get(ctx context.Context, key string) (T, error)

	/*
		Has reports whether key holds a live entry.
		An entry exactly at its expiry is already expired.
	*/
	Has(key string) bool

	/*
		TTL returns the remaining time-to-live for a key.

		RETURN VALUES:
		-------------------------------------------
		> 0   : Duration remaining before expiration
		-2    : Key does not exist or is already expired
	*/
	TTL(key string) time.Duration

	// Len returns how many entries are held in memory.
	Len() int
}
