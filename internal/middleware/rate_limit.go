package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	LoginMaxAttempts  = 5
	LoginCooldown     = 15 * time.Minute
	CartMaxRequests   = 20
	SearchMaxRequests = 30
	ChatMaxRequests   = 10
	SignupMaxRequests = 3
	SignupWindow      = 10 * time.Minute

	loginMaxBody = int64(4096)
)

// Counter is the Redis-backed store behind the limits.
type Counter interface {
	IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, error)
	SetFlag(ctx context.Context, key string, ttl time.Duration) error
	FlagTTL(ctx context.Context, key string) time.Duration
	Reset(ctx context.Context, keys ...string) error
}

type RateLimiter struct {
	counter Counter
}

func NewRateLimiter(counter Counter) *RateLimiter {
	return &RateLimiter{counter: counter}
}

// Login locks an email out for LoginCooldown after LoginMaxAttempts
// failed logins. A successful login clears the counter.
func (r *RateLimiter) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := peekEmail(c)
		if email == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		attemptsKey := "login_attempts:" + email
		cooldownKey := "login_cooldown:" + email

		if ttl := r.counter.FlagTTL(ctx, cooldownKey); ttl > 0 {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Too many failed attempts. Try again in %d minutes.", int(ttl.Minutes())+1),
				"retry_after": int(ttl.Seconds()),
			})
			return
		}

		c.Next()

		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			n, err := r.counter.IncrementRateLimit(ctx, attemptsKey, LoginCooldown)
			if err != nil {
				log.Printf("⚠️ Login rate limit unavailable: %v", err)
				return
			}
			if n >= LoginMaxAttempts {
				_ = r.counter.SetFlag(ctx, cooldownKey, LoginCooldown)
				_ = r.counter.Reset(ctx, attemptsKey)
				log.Printf("🔒 Login locked for %s", email)
			}
		case http.StatusOK:
			_ = r.counter.Reset(ctx, attemptsKey, cooldownKey)
		}
	}
}

// peekEmail reads the email of a JSON body and restores the body. Bodies
// over loginMaxBody are passed through unread.
func peekEmail(c *gin.Context) string {
	orig := c.Request.Body
	body, err := io.ReadAll(io.LimitReader(orig, loginMaxBody+1))
	c.Request.Body = readCloser{io.MultiReader(bytes.NewReader(body), orig), orig}
	if err != nil || int64(len(body)) > loginMaxBody {
		return ""
	}

	var input struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(body, &input) != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(input.Email))
}

// Limit allows max requests per window for each key returned by keyFn.
// Requests are let through when the counter store is unavailable.
func (r *RateLimiter) Limit(name string, max int64, window time.Duration, keyFn func(*gin.Context) string, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := keyFn(c)
		if id == "" {
			c.Next()
			return
		}

		n, err := r.counter.IncrementRateLimit(c.Request.Context(), name+":"+id, window)
		if err != nil {
			log.Printf("⚠️ Rate limit %s unavailable: %v", name, err)
			c.Next()
			return
		}

		remaining := max - n
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", max))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if n > max {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       msg,
				"retry_after": int(window.Seconds()),
			})
			return
		}
		c.Next()
	}
}

func ClientIP(c *gin.Context) string { return c.ClientIP() }

type readCloser struct {
	io.Reader
	io.Closer
}

// Cart limits cart writes per cart session, or per client IP for requests
// without a session cookie. It must run after CartSession.
func (r *RateLimiter) Cart() gin.HandlerFunc {
	return r.Limit("cart_writes", CartMaxRequests, time.Minute, StableCartKey,
		"Too many cart updates. Slow down a little.")
}

func (r *RateLimiter) Search() gin.HandlerFunc {
	return r.Limit("search_requests", SearchMaxRequests, time.Minute, ClientIP,
		"Too many searches. Try again in a minute.")
}

func (r *RateLimiter) Chat() gin.HandlerFunc {
	return r.Limit("ai_requests", ChatMaxRequests, time.Minute, ClientIP,
		"Too many requests to the assistant. Try again in a minute.")
}

func (r *RateLimiter) SignupLink() gin.HandlerFunc {
	return r.Limit("signup_links", SignupMaxRequests, SignupWindow, ClientIP,
		"Too many sign-up requests. Try again later.")
}
