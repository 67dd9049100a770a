package writepolicy

import "context"

/*
This file defines what a "write policy" is.

A mirrored cache serializes its whole state after every mutation and hands the blob
to a write policy. The policy decides when that blob reaches storage:
- Write-through: before the mutation returns
- Write-back: later, from a background worker
*/

/*
WritePolicy is the contract that all write policies must follow.
The cache does not care which policy is used. It simply calls these methods.
*/
type WritePolicy interface {

	/*
		OnWrite is called with the full serialized snapshot to store under key.
		The returned error is only meaningful for synchronous policies.
	*/
	OnWrite(ctx context.Context, key, blob string) error

	/*
		Close is called when the cache is shutting down.
	*/
	Close()
}
