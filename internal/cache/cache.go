// Package cache wraps Redis for everything the storefront keeps outside
// the database: carts, cached listings, one-time tokens, viewing history
// and rate-limit counters.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"lorve_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	ProductsCacheTTL = time.Hour
	AdminsCacheTTL   = 5 * time.Minute

	productsKey = "products:all"
	adminsKey   = "admins:all"
)

type Cache struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// --- Product listing ---

func (c *Cache) GetProducts(ctx context.Context) ([]models.Product, bool) {
	var products []models.Product
	if !c.getJSON(ctx, productsKey, &products) {
		return nil, false
	}
	return products, true
}

func (c *Cache) SetProducts(ctx context.Context, products []models.Product) {
	c.setJSON(ctx, productsKey, products, ProductsCacheTTL)
}

func (c *Cache) InvalidateProducts(ctx context.Context) {
	if err := c.rdb.Del(ctx, productsKey).Err(); err != nil {
		log.Printf("⚠️ Product cache invalidation failed: %v", err)
	}
}

// --- Admin allow-list ---

func (c *Cache) GetAdmins(ctx context.Context) ([]string, bool) {
	var emails []string
	if !c.getJSON(ctx, adminsKey, &emails) {
		return nil, false
	}
	return emails, true
}

func (c *Cache) SetAdmins(ctx context.Context, emails []string) {
	c.setJSON(ctx, adminsKey, emails, AdminsCacheTTL)
}

func (c *Cache) InvalidateAdmins(ctx context.Context) {
	if err := c.rdb.Del(ctx, adminsKey).Err(); err != nil {
		log.Printf("⚠️ Admin cache invalidation failed: %v", err)
	}
}

func (c *Cache) getJSON(ctx context.Context, key string, v any) bool {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("⚠️ Cache read %s: %v", key, err)
		}
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func (c *Cache) setJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("⚠️ Cache write %s: %v", key, err)
	}
}
