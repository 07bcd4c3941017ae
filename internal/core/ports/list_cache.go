package ports

import "context"

// ListCache caches serialized public listings. Implementations must treat
// every failure as a miss; callers never fail a request because of the cache.
//
// Writers call Invalidate after committing. Readers that fill the cache read
// Version before loading and pass it to SetIfVersion, so a listing loaded
// before a concurrent write is never stored.
type ListCache interface {
	// Get decodes the cached value for key into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst any) (bool, error)
	// Version returns the invalidation counter of key.
	Version(ctx context.Context, key string) (int64, error)
	// SetIfVersion stores value only while key is still at version and
	// reports whether it did.
	SetIfVersion(ctx context.Context, key string, version int64, value any) (bool, error)
	// Invalidate bumps the version of every key and drops the cached values.
	Invalidate(ctx context.Context, keys ...string) error
}
