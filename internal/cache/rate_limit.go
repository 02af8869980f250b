package cache

import (
	"context"
	"time"
)

// IncrementRateLimit bumps a fixed-window counter and returns its value.
// The window starts with the first hit.
func (c *Cache) IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// SetFlag stores a marker key that expires after ttl.
func (c *Cache) SetFlag(ctx context.Context, key string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, "1", ttl).Err()
}

// FlagTTL returns the remaining lifetime of a marker key, zero when absent.
func (c *Cache) FlagTTL(ctx context.Context, key string) time.Duration {
	ttl := c.rdb.TTL(ctx, key).Val()
	if ttl < 0 {
		return 0
	}
	return ttl
}

func (c *Cache) Reset(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}
