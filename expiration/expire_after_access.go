package expiration

import "time"

// DefaultTTL is used when a cache is built without an explicit TTL.
const DefaultTTL = 15 * time.Minute

/*
ExpireAfterAccess implements a very common cache behavior called "expire after access" or "sliding TTL".
Every time someone reads the data, the expiration deadline is pushed forward. As long as the data keeps
getting used, it stays alive. If nobody touches it for a while, it expires.
*/
type ExpireAfterAccess struct {

	// TTL (Time-To-Live) defines how long the entry should remain valid AFTER it is written or accessed.
	TTL time.Duration
}

// NewExpireAfterAccess returns a sliding strategy, falling back to DefaultTTL for ttl <= 0.
func NewExpireAfterAccess(ttl time.Duration) *ExpireAfterAccess {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ExpireAfterAccess{TTL: ttl}
}

// IsExpired is strict: an entry exactly at its deadline is already expired.
func (e *ExpireAfterAccess) IsExpired(expiresAt, now time.Time) bool {
	return !expiresAt.After(now)
}

// OnAccess pushes the deadline to now + TTL.
func (e *ExpireAfterAccess) OnAccess(now time.Time) time.Time {
	return now.Add(e.TTL)
}

// OnWrite sets the deadline to now + TTL.
func (e *ExpireAfterAccess) OnWrite(now time.Time) time.Time {
	return now.Add(e.TTL)
}
