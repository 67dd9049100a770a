// This file defines the idea of a "refresh hook".
// This hook allows the cache to do something extra WHEN data is read from the cache.

package refresh

import "time"

/*
Hook is the interface for refresh behavior.
If a refresh hook is configured, it will be called every time a cache hit slides an entry's expiry.

This gives us a chance to:
- Log access patterns
- Trigger a background reload of entries that are read often
- Mirror the refreshed deadline somewhere else

The cache itself does NOT care what the hook does.
It just calls OnRead and moves on.
*/
type Hook interface {

	/*
		OnRead is called after a successful cache read, outside the cache lock.
		This method MUST be fast and non blocking because it runs on the hot read path.
	*/
	OnRead(key string, expiresAt time.Time)
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(key string, expiresAt time.Time)

func (f HookFunc) OnRead(key string, expiresAt time.Time) { f(key, expiresAt) }
