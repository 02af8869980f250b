package middleware

import (
	"net/http"

	"lorve_back_end/internal/cart"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CartCookie     = "cart_id"
	ContextCartKey = "cart_key"
	cartCookieAge  = 30 * 24 * 60 * 60
)

// CartSession resolves the cart of the request: the user's cart when
// authenticated, otherwise the guest cart named by the cart cookie. A
// guest without a valid cookie is issued one, so the cart and viewing
// history stay under one key across requests.
func CartSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetString(ContextUserID); userID != "" {
			c.Set(ContextCartKey, cart.UserKey(userID))
			c.Next()
			return
		}

		id, ok := GuestCartID(c)
		if !ok {
			id = uuid.NewString()
			SetCartCookie(c, id)
		}
		c.Set(ContextCartKey, cart.GuestKey(id))
		c.Next()
	}
}

// GuestCartID returns the id carried by a well-formed cart cookie.
func GuestCartID(c *gin.Context) (string, bool) {
	id, err := c.Cookie(CartCookie)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func SetCartCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CartCookie, id, cartCookieAge, "/", "", c.Request.TLS != nil, true)
}

func ClearCartCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CartCookie, "", -1, "/", "", c.Request.TLS != nil, true)
}

func CartKey(c *gin.Context) string {
	return c.GetString(ContextCartKey)
}

// StableCartKey is the cart key when the request already carried it,
// through a token or a cart cookie. Otherwise it falls back to the client
// IP, which keeps per-session limits effective for clients that drop the
// cookie.
func StableCartKey(c *gin.Context) string {
	if c.GetString(ContextUserID) != "" {
		return CartKey(c)
	}
	if _, ok := GuestCartID(c); ok {
		return CartKey(c)
	}
	return "ip:" + ClientIP(c)
}
