// This file defines how cache entries expire over time.

package expiration

import "time"

/*
Strategy is the interface that all expiration rules must follow. Instead of hard-coding
expiration logic into the cache, we define a strategy so expiration behavior can be swapped easily.

Strategies work on absolute deadlines. The cache stores whatever OnWrite / OnAccess return
as the entry's ExpiresAt and schedules its eviction timer for that instant.
*/
type Strategy interface {

	// IsExpired checks if an entry with the given deadline is expired at now.
	IsExpired(expiresAt, now time.Time) bool

	// OnAccess returns the new deadline for an entry that was just read.
	OnAccess(now time.Time) time.Time

	// OnWrite returns the deadline for an entry that was just written or replaced.
	OnWrite(now time.Time) time.Time
}
