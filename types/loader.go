package types

import "context"

// Loader is the contract between the cache and whatever produces values on a miss.
type Loader[T any] interface {

	/*
		Load is called when the cache misses. The key was not found in memory (or it expired),
		so the cache asks the Loader to fetch it.
		1. Cache checks memory → key not found
		2. Cache calls Load(key)
		3. Loader fetches from DB/API
		4. Cache stores the result in memory
		5. Cache returns the value

		A failed Load leaves the cache untouched and the error goes back to the caller.
		No timeout is imposed by the cache; that is up to the Loader and its ctx.
	*/
	Load(ctx context.Context, key string) (T, error)
}

// LoaderFunc adapts a plain function to the Loader interface.
type LoaderFunc[T any] func(ctx context.Context, key string) (T, error)

func (f LoaderFunc[T]) Load(ctx context.Context, key string) (T, error) {
	return f(ctx, key)
}
