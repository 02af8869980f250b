package cache

import (
	"context"
	"time"
)

const (
	HistoryLimit = 10
	HistoryTTL   = 30 * 24 * time.Hour
)

func historyKey(key string) string { return "viewing_history:" + key }

// RecordView moves name to the front of the shopper's viewing history,
// keeping at most HistoryLimit distinct entries.
func (c *Cache) RecordView(ctx context.Context, key, name string) error {
	k := historyKey(key)
	pipe := c.rdb.TxPipeline()
	pipe.LRem(ctx, k, 0, name)
	pipe.LPush(ctx, k, name)
	pipe.LTrim(ctx, k, 0, HistoryLimit-1)
	pipe.Expire(ctx, k, HistoryTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *Cache) ViewingHistory(ctx context.Context, key string) ([]string, error) {
	return c.rdb.LRange(ctx, historyKey(key), 0, HistoryLimit-1).Result()
}
