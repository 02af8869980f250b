package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"lorve_back_end/internal/handlers/admin"
	aihandler "lorve_back_end/internal/handlers/ai"
	"lorve_back_end/internal/handlers/product"
	"lorve_back_end/internal/handlers/user"
	"lorve_back_end/internal/middleware"
	"lorve_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type noAdmins struct{}

func (noAdmins) IsAdmin(context.Context, string) bool { return false }

type noRevocations struct{}

func (noRevocations) IsTokenBlacklisted(context.Context, string) (bool, error) { return false, nil }

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, Handlers{
		Product: product.NewHandler(nil, nil),
		User:    user.NewHandler(user.Deps{}),
		Admin:   admin.NewHandler(nil),
		AI:      aihandler.NewHandler(nil, nil),
		Auth:    middleware.NewAuth("secret", noRevocations{}),
		Limits:  middleware.NewRateLimiter(nil),
		Admins:  noAdmins{},
		Auditor: utils.NewAuditor(nil),
	})
	return r
}

func TestRegisterRoutes(t *testing.T) {
	r := newRouter()

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"GET /api/products",
		"GET /api/products/featured",
		"GET /api/products/search",
		"GET /api/products/:id",
		"POST /api/cart/items",
		"DELETE /api/cart",
		"GET /api/cart/ws",
		"POST /api/auth/login",
		"GET /api/auth/oauth/:provider/callback",
		"PUT /api/address",
		"POST /api/checkout",
		"POST /api/payments/webhook",
		"POST /api/ai/recommendations",
		"POST /api/admin/products",
		"DELETE /api/admin/admins/:email",
	} {
		assert.True(t, registered[want], want)
	}
}

func TestProtectedRoutes(t *testing.T) {
	r := newRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	for _, path := range []string{"/api/orders", "/api/address", "/api/admin/admins", "/api/auth/me"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}
