package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lorve_back_end/internal/cart"

	"github.com/redis/go-redis/v9"
)

const CartTTL = 30 * 24 * time.Hour

// Cart change notifications published on CartChannel.
const (
	CartEventUpdated = "updated"
	CartEventCleared = "cleared"
)

func cartKey(key string) string { return "cart:" + key }

// CartChannel is the pub/sub channel announcing changes to one cart.
func CartChannel(key string) string { return "cart_events:" + key }

// CartStore keeps carts as JSON documents in Redis.
type CartStore struct {
	rdb *redis.Client
}

var _ cart.Store = (*CartStore)(nil)

func NewCartStore(rdb *redis.Client) *CartStore {
	return &CartStore{rdb: rdb}
}

func (s *CartStore) Load(ctx context.Context, key string) (*cart.Cart, error) {
	data, err := s.rdb.Get(ctx, cartKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	c := cart.New()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return c, nil
}

func (s *CartStore) Save(ctx context.Context, key string, c *cart.Cart) error {
	if c.IsEmpty() {
		return s.Delete(ctx, key)
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, cartKey(key), data, CartTTL)
	pipe.Publish(ctx, CartChannel(key), CartEventUpdated)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *CartStore) Delete(ctx context.Context, key string) error {
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, cartKey(key))
	pipe.Publish(ctx, CartChannel(key), CartEventCleared)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

// Subscribe listens for change events of one cart.
func (s *CartStore) Subscribe(ctx context.Context, key string) *redis.PubSub {
	return s.rdb.Subscribe(ctx, CartChannel(key))
}
