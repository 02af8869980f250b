package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"lorve_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware.
const (
	ContextUserID   = "user_id"
	ContextEmail    = "email"
	ContextTokenID  = "token_id"
	ContextTokenTTL = "token_ttl"
	TokenCookie     = "lorve_token"
)

type TokenBlacklist interface {
	IsTokenBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

type Auth struct {
	secret    []byte
	blacklist TokenBlacklist
}

func NewAuth(secret string, blacklist TokenBlacklist) *Auth {
	return &Auth{secret: []byte(secret), blacklist: blacklist}
}

// bearer extracts the token from the Authorization header, falling back
// to the session cookie used by browsers and websockets.
func bearer(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}
	token, _ := c.Cookie(TokenCookie)
	return token
}

func (a *Auth) authenticate(c *gin.Context) (string, bool) {
	tokenString := bearer(c)
	if tokenString == "" {
		return "Missing token", false
	}

	claims, err := utils.ParseJWT(a.secret, tokenString)
	if err != nil {
		log.Printf("❌ JWT rejected: %v", err)
		return "Invalid token", false
	}

	revoked, err := a.blacklist.IsTokenBlacklisted(c.Request.Context(), claims.ID)
	if err != nil {
		log.Printf("❌ Blacklist lookup failed: %v", err)
		return "Invalid token", false
	}
	if revoked {
		return "Token revoked", false
	}

	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextTokenID, claims.ID)
	c.Set(ContextTokenTTL, claims.Remaining())
	return "", true
}

// Required rejects requests without a valid, unrevoked token.
func (a *Auth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		if msg, ok := a.authenticate(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}
		c.Next()
	}
}

// Optional identifies the shopper when a valid token is present and lets
// anonymous requests through.
func (a *Auth) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if bearer(c) != "" {
			a.authenticate(c)
		}
		c.Next()
	}
}

// TokenTTL returns the remaining validity of the request's token.
func TokenTTL(c *gin.Context) time.Duration {
	v, _ := c.Get(ContextTokenTTL)
	ttl, _ := v.(time.Duration)
	return ttl
}
