package cache

import (
	"context"
	"testing"
	"time"

	"lorve_back_end/internal/cart"
	"lorve_back_end/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCartStore(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	store := NewCartStore(rdb)

	t.Run("MissingCartIsEmpty", func(t *testing.T) {
		c, err := store.Load(ctx, "user:nobody")
		require.NoError(t, err)
		assert.True(t, c.IsEmpty())
	})

	t.Run("SaveAndLoad", func(t *testing.T) {
		c := cart.New()
		require.NoError(t, c.Add(models.Product{ID: "1", Name: "Elysian Bloom", Price: 180}, 2))
		require.NoError(t, store.Save(ctx, "user:42", c))

		assert.True(t, mr.Exists("cart:user:42"))
		assert.InDelta(t, CartTTL.Seconds(), mr.TTL("cart:user:42").Seconds(), 1)

		loaded, err := store.Load(ctx, "user:42")
		require.NoError(t, err)
		require.Len(t, loaded.Items, 1)
		assert.Equal(t, "Elysian Bloom", loaded.Items[0].Name)
		assert.Equal(t, 2, loaded.Items[0].Quantity)
	})

	t.Run("SavingEmptyCartDeletesIt", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "user:42", cart.New()))
		assert.False(t, mr.Exists("cart:user:42"))
	})

	t.Run("CorruptPayload", func(t *testing.T) {
		require.NoError(t, mr.Set("cart:user:bad", "{not json"))
		_, err := store.Load(ctx, "user:bad")
		require.Error(t, err)
	})
}

func TestCartStorePublishes(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	store := NewCartStore(rdb)

	sub := store.Subscribe(ctx, "guest:abc")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	c := cart.New()
	require.NoError(t, c.Add(models.Product{ID: "1"}, 1))
	require.NoError(t, store.Save(ctx, "guest:abc", c))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, CartEventUpdated, msg.Payload)
}

func TestProductAndAdminCache(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	c := New(rdb)

	_, ok := c.GetProducts(ctx)
	assert.False(t, ok)

	c.SetProducts(ctx, []models.Product{{ID: "1", Name: "Noir Enigma"}})
	products, ok := c.GetProducts(ctx)
	require.True(t, ok)
	assert.Equal(t, "Noir Enigma", products[0].Name)

	c.InvalidateProducts(ctx)
	_, ok = c.GetProducts(ctx)
	assert.False(t, ok)

	c.SetAdmins(ctx, []string{"a@lorve.store"})
	admins, ok := c.GetAdmins(ctx)
	require.True(t, ok)
	assert.Equal(t, []string{"a@lorve.store"}, admins)
	c.InvalidateAdmins(ctx)
	_, ok = c.GetAdmins(ctx)
	assert.False(t, ok)
}

func TestViewingHistory(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	c := New(rdb)

	for _, name := range []string{"A", "B", "A", "C"} {
		require.NoError(t, c.RecordView(ctx, "guest:1", name))
	}
	history, err := c.ViewingHistory(ctx, "guest:1")
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, history)

	for i := 0; i < HistoryLimit+5; i++ {
		require.NoError(t, c.RecordView(ctx, "guest:2", string(rune('a'+i))))
	}
	history, err = c.ViewingHistory(ctx, "guest:2")
	require.NoError(t, err)
	assert.Len(t, history, HistoryLimit)
	assert.Equal(t, string(rune('a'+HistoryLimit+4)), history[0])
}

func TestSignupToken(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	c := New(rdb)

	require.NoError(t, c.StoreSignupToken(ctx, "tok", "new@lorve.store"))
	assert.ErrorIs(t, c.ConsumeSignupToken(ctx, "tok", "other@lorve.store"), ErrTokenInvalid)
	// the failed attempt consumed the token
	assert.ErrorIs(t, c.ConsumeSignupToken(ctx, "tok", "new@lorve.store"), ErrTokenInvalid)

	require.NoError(t, c.StoreSignupToken(ctx, "tok2", "new@lorve.store"))
	assert.NoError(t, c.ConsumeSignupToken(ctx, "tok2", "new@lorve.store"))
}

func TestBlacklist(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	c := New(rdb)

	revoked, err := c.IsTokenBlacklisted(ctx, "jti")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, c.BlacklistToken(ctx, "jti", time.Minute))
	revoked, err = c.IsTokenBlacklisted(ctx, "jti")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRateLimitCounter(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	c := New(rdb)

	for i := int64(1); i <= 3; i++ {
		n, err := c.IncrementRateLimit(ctx, "rl:test", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	assert.Greater(t, mr.TTL("rl:test"), time.Duration(0), "window is set on the first hit")

	mr.FastForward(time.Minute + time.Second)
	assert.False(t, mr.Exists("rl:test"))
	n, err := c.IncrementRateLimit(ctx, "rl:test", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "a new window starts after expiry")
}
