package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/flipiri/flipiri-api/internal/core/ports"
	"github.com/flipiri/flipiri-api/internal/pkg/metrics"
)

const (
	projectsCacheKey = "list:projects"
	clientsCacheKey  = "list:clients"
)

// NopListCache is used when no cache backend is configured.
type NopListCache struct{}

func (NopListCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (NopListCache) Version(context.Context, string) (int64, error) { return 0, nil }
func (NopListCache) Invalidate(context.Context, ...string) error { return nil }

// SetIfVersion keeps nothing, so there is never a stale listing to refuse.
func (NopListCache) SetIfVersion(context.Context, string, int64, any) (bool, error) {
	return true, nil
}

// cachedList serves key from cache, falling back to load and repopulating.
// Cache errors are logged and treated as misses. The version is read before
// load, so a write committed while loading keeps the loaded list out of the
// cache.
func cachedList[T any](
	ctx context.Context,
	cache ports.ListCache,
	log zerolog.Logger,
	key string,
	load func(context.Context) ([]T, error),
) ([]T, error) {
	var items []T
	found, err := cache.Get(ctx, key, &items)
	switch {
	case err != nil:
		metrics.ListCacheTotal.WithLabelValues("error").Inc()
		log.Warn().Err(err).Str("key", key).Msg("list cache read failed, loading from store")
		return load(ctx)
	case found:
		metrics.ListCacheTotal.WithLabelValues("hit").Inc()
		return items, nil
	default:
		metrics.ListCacheTotal.WithLabelValues("miss").Inc()
	}

	version, verr := cache.Version(ctx, key)
	items, err = load(ctx)
	if err != nil {
		return nil, err
	}
	if verr != nil {
		log.Warn().Err(verr).Str("key", key).Msg("list cache version read failed, not caching")
		return items, nil
	}

	stored, err := cache.SetIfVersion(ctx, key, version, items)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("key", key).Msg("list cache write failed")
	case !stored:
		metrics.ListCacheTotal.WithLabelValues("stale").Inc()
		log.Debug().Str("key", key).Msg("list changed while loading, not cached")
	}
	return items, nil
}

// invalidate drops key after a write. A failure leaves a stale entry until
// its TTL, which is logged but not surfaced.
func invalidate(ctx context.Context, cache ports.ListCache, log zerolog.Logger, key string) {
	if err := cache.Invalidate(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("list cache invalidation failed")
	}
}
