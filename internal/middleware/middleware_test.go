package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lorve_back_end/internal/cache"
	"lorve_back_end/internal/models"
	"lorve_back_end/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newCache(t *testing.T) (*miniredis.Miniredis, *cache.Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, cache.New(rdb)
}

func token(t *testing.T, id, email string) string {
	t.Helper()
	s, err := utils.GenerateJWT([]byte(testSecret), models.User{ID: id, Email: email})
	require.NoError(t, err)
	return s
}

func whoami(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": c.GetString(ContextUserID), "cart": CartKey(c)})
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	_, store := newCache(t)
	auth := NewAuth(testSecret, store)
	r := gin.New()
	r.GET("/me", auth.Required(), whoami)

	w := do(r, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	tok := token(t, "u1", "jo@lorve.com")
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user":"u1"`)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tok})
	assert.Equal(t, http.StatusOK, do(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token "+tok)
	assert.Equal(t, http.StatusUnauthorized, do(r, req).Code)

	claims, err := utils.ParseJWT([]byte(testSecret), tok)
	require.NoError(t, err)
	require.NoError(t, store.BlacklistToken(context.Background(), claims.ID, time.Hour))
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = do(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token revoked")
}

func TestAuthOptional(t *testing.T) {
	_, store := newCache(t)
	auth := NewAuth(testSecret, store)
	r := gin.New()
	r.GET("/me", auth.Optional(), whoami)

	w := do(r, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user":""`)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user":""`)
}

type adminSet map[string]bool

func (a adminSet) IsAdmin(_ context.Context, email string) bool { return a[email] }

func TestRequireAdmin(t *testing.T) {
	_, store := newCache(t)
	auth := NewAuth(testSecret, store)
	r := gin.New()
	r.GET("/admin", auth.Required(), RequireAdmin(adminSet{"owner@lorve.com": true}), whoami)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "u1", "owner@lorve.com"))
	assert.Equal(t, http.StatusOK, do(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "u2", "guest@lorve.com"))
	assert.Equal(t, http.StatusForbidden, do(r, req).Code)
}

func TestLoginRateLimit(t *testing.T) {
	mr, store := newCache(t)
	limiter := NewRateLimiter(store)
	r := gin.New()
	r.POST("/login", limiter.Login(), func(c *gin.Context) {
		var in struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, c.ShouldBindJSON(&in), "body must be restored")
		if in.Password != "right" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
			return
		}
		c.JSON(http.StatusOK, gin.H{})
	})

	login := func(password string) int {
		body := `{"email":"Jo@Lorve.com","password":"` + password + `"}`
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return do(r, req).Code
	}

	for i := 0; i < LoginMaxAttempts-1; i++ {
		assert.Equal(t, http.StatusUnauthorized, login("wrong"))
	}
	assert.Equal(t, http.StatusOK, login("right"), "success before lockout resets the counter")

	for i := 0; i < LoginMaxAttempts; i++ {
		assert.Equal(t, http.StatusUnauthorized, login("wrong"))
	}
	assert.Equal(t, http.StatusTooManyRequests, login("right"))

	mr.FastForward(LoginCooldown + time.Second)
	assert.Equal(t, http.StatusOK, login("right"))
}

func TestLimit(t *testing.T) {
	mr, store := newCache(t)
	limiter := NewRateLimiter(store)
	r := gin.New()
	r.GET("/search", limiter.Limit("test", 2, time.Minute, ClientIP, "slow down"), whoami)

	assert.Equal(t, http.StatusOK, do(r, httptest.NewRequest(http.MethodGet, "/search", nil)).Code)
	w := do(r, httptest.NewRequest(http.MethodGet, "/search", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = do(r, httptest.NewRequest(http.MethodGet, "/search", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "slow down")

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, do(r, httptest.NewRequest(http.MethodGet, "/search", nil)).Code)
}

func TestCartSession(t *testing.T) {
	_, store := newCache(t)
	auth := NewAuth(testSecret, store)
	r := gin.New()
	r.Use(auth.Optional(), CartSession())
	r.GET("/cart", whoami)
	r.POST("/cart", whoami)

	w := do(r, httptest.NewRequest(http.MethodGet, "/cart", nil))
	assert.Contains(t, w.Body.String(), `"cart":"guest:`)
	require.Len(t, w.Result().Cookies(), 1, "first read issues a cookie")

	w = do(r, httptest.NewRequest(http.MethodPost, "/cart", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CartCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodPost, "/cart", nil)
	req.AddCookie(cookies[0])
	w = do(r, req)
	assert.Empty(t, w.Header().Get("Set-Cookie"))
	assert.Contains(t, w.Body.String(), `"cart":"guest:`+cookies[0].Value+`"`)

	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "u7", "jo@lorve.com"))
	req.AddCookie(cookies[0])
	assert.Contains(t, do(r, req).Body.String(), `"cart":"user:u7"`)
}

func TestGuestViewsShareCookie(t *testing.T) {
	_, store := newCache(t)
	r := gin.New()
	r.Use(CartSession())
	r.GET("/products/:id", func(c *gin.Context) {
		require.NoError(t, store.RecordView(c.Request.Context(), CartKey(c), c.Param("id")))
		c.Status(http.StatusOK)
	})
	r.GET("/recommendations", func(c *gin.Context) {
		ids, err := store.ViewingHistory(c.Request.Context(), CartKey(c))
		require.NoError(t, err)
		c.JSON(http.StatusOK, gin.H{"history": ids})
	})

	w := do(r, httptest.NewRequest(http.MethodGet, "/products/p1", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/products/p2", nil)
	req.AddCookie(cookies[0])
	w = do(r, req)
	assert.Empty(t, w.Result().Cookies(), "known guests keep their cookie")

	req = httptest.NewRequest(http.MethodGet, "/recommendations", nil)
	req.AddCookie(cookies[0])
	body := do(r, req).Body.String()
	assert.Contains(t, body, `"p1"`)
	assert.Contains(t, body, `"p2"`)
}

func TestCartLimitWithoutCookie(t *testing.T) {
	_, store := newCache(t)
	limiter := NewRateLimiter(store)
	r := gin.New()
	r.Use(CartSession())
	r.POST("/cart", limiter.Cart(), func(c *gin.Context) { c.Status(http.StatusOK) })

	var limited int
	for i := 0; i < CartMaxRequests+5; i++ {
		if do(r, httptest.NewRequest(http.MethodPost, "/cart", nil)).Code == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Equal(t, 5, limited, "cookieless writes share the client IP budget")
}

func TestLoginLargeBody(t *testing.T) {
	_, store := newCache(t)
	limiter := NewRateLimiter(store)
	r := gin.New()
	var got int
	r.POST("/login", limiter.Login(), func(c *gin.Context) {
		b, err := io.ReadAll(c.Request.Body)
		require.NoError(t, err)
		got = len(b)
		c.Status(http.StatusBadRequest)
	})

	big := `{"email":"a@b.com","pad":"` + strings.Repeat("x", 1<<20) + `"}`
	w := do(r, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(big)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, len(big), got, "body reaches the handler intact")
	assert.Empty(t, peekEmailOf(`{"email":"x"}`+strings.Repeat(" ", int(loginMaxBody))))
	assert.Equal(t, "jo@lorve.com", peekEmailOf(`{"email":" Jo@Lorve.com "}`))
}

func peekEmailOf(body string) string {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	return peekEmail(c)
}

type chanAudit chan models.AuditLog

func (ch chanAudit) Insert(_ context.Context, l models.AuditLog) error {
	ch <- l
	return nil
}

func TestAuditCriticalActions(t *testing.T) {
	entries := make(chanAudit, 2)
	auditor := utils.NewAuditor(entries)
	r := gin.New()
	r.DELETE("/products/:id", AuditCriticalActions(auditor, utils.ActionProductDelete, utils.ResourceProduct),
		func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.POST("/products", AuditCriticalActions(auditor, utils.ActionProductCreate, utils.ResourceProduct),
		func(c *gin.Context) {
			c.Set(ContextAuditID, "new-id")
			c.JSON(http.StatusBadRequest, gin.H{})
		})

	do(r, httptest.NewRequest(http.MethodDelete, "/products/p1", nil))
	e := <-entries
	assert.Equal(t, "p1", e.ResourceID)
	assert.True(t, e.Success)

	do(r, httptest.NewRequest(http.MethodPost, "/products", nil))
	e = <-entries
	assert.Equal(t, "new-id", e.ResourceID)
	assert.False(t, e.Success)
	assert.Equal(t, "request failed with status 400", e.ErrorMsg)
}
