package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const SignupLinkTTL = time.Hour

var ErrTokenInvalid = errors.New("token invalid or expired")

// --- JWT blacklist (revocation before expiry) ---

func (c *Cache) BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, "blacklist:"+tokenID, "revoked", ttl).Err()
}

func (c *Cache) IsTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	n, err := c.rdb.Exists(ctx, "blacklist:"+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// --- Sign-up links ---

func (c *Cache) StoreSignupToken(ctx context.Context, token, email string) error {
	return c.rdb.Set(ctx, "signup_link:"+token, email, SignupLinkTTL).Err()
}

// ConsumeSignupToken checks the token belongs to email and deletes it.
func (c *Cache) ConsumeSignupToken(ctx context.Context, token, email string) error {
	stored, err := c.rdb.GetDel(ctx, "signup_link:"+token).Result()
	if errors.Is(err, redis.Nil) {
		return ErrTokenInvalid
	}
	if err != nil {
		return fmt.Errorf("consume signup token: %w", err)
	}
	if stored != email {
		return ErrTokenInvalid
	}
	return nil
}

// --- OAuth redirects ---

func (c *Cache) StoreOAuthRedirect(ctx context.Context, state, redirectURL string) error {
	return c.rdb.Set(ctx, "oauth_redirect:"+state, redirectURL, 10*time.Minute).Err()
}

func (c *Cache) PopOAuthRedirect(ctx context.Context, state string) string {
	url, _ := c.rdb.GetDel(ctx, "oauth_redirect:"+state).Result()
	return url
}
