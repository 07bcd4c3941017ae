package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultListTTL bounds how long a stale listing can survive a failed invalidation.
const DefaultListTTL = 5 * time.Minute

// setIfVersion writes KEYS[2] only while the counter at KEYS[1] equals ARGV[1].
// A missing counter reads as 0.
var setIfVersion = redis.NewScript(`
local current = redis.call('GET', KEYS[1]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

// ListCache stores public listings as JSON strings next to a version counter.
// Key format: flipiri:{<key>} for the value, flipiri:gen:{<key>} for the counter.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache wraps client. A non-positive ttl falls back to DefaultListTTL.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	if ttl <= 0 {
		ttl = DefaultListTTL
	}
	return &ListCache{client: client, ttl: ttl}
}

func (c *ListCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("list cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("list cache decode %s: %w", key, err)
	}
	return true, nil
}

func (c *ListCache) Version(ctx context.Context, key string) (int64, error) {
	v, err := c.client.Get(ctx, c.versionKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("list cache version %s: %w", key, err)
	}
	return v, nil
}

func (c *ListCache) SetIfVersion(ctx context.Context, key string, version int64, value any) (bool, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("list cache encode %s: %w", key, err)
	}
	stored, err := setIfVersion.Run(ctx, c.client,
		[]string{c.versionKey(key), c.key(key)},
		version, raw, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("list cache set %s: %w", key, err)
	}
	return stored == 1, nil
}

// Invalidate bumps each counter before deleting the value, so a reader that
// loaded before the bump can no longer store its listing.
func (c *ListCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		if err := c.client.Incr(ctx, c.versionKey(k)).Err(); err != nil {
			return fmt.Errorf("list cache invalidate %s: %w", k, err)
		}
		full[i] = c.key(k)
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("list cache invalidate: %w", err)
	}
	return nil
}

func (c *ListCache) key(k string) string {
	return "flipiri:{" + k + "}"
}

func (c *ListCache) versionKey(k string) string {
	return "flipiri:gen:{" + k + "}"
}
