package cache

import api "github.com/krisalay/storage-cache/api"

var (
	_ api.Cache[any] = (*ExpiringCache[any])(nil)
	_ api.Cache[any] = (*MirroredCache[any])(nil)
)
