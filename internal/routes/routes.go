package routes

import (
	"net/http"

	"lorve_back_end/internal/handlers/admin"
	aihandler "lorve_back_end/internal/handlers/ai"
	"lorve_back_end/internal/handlers/product"
	"lorve_back_end/internal/handlers/user"
	"lorve_back_end/internal/middleware"
	"lorve_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Product *product.Handler
	User    *user.Handler
	Admin   *admin.Handler
	AI      *aihandler.Handler

	Auth    *middleware.Auth
	Limits  *middleware.RateLimiter
	Admins  middleware.AdminChecker
	Auditor *utils.Auditor
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth
	authGroup := api.Group("/auth")
	authGroup.POST("/signup-link", h.Limits.SignupLink(), h.User.RequestSignupLink)
	authGroup.POST("/signup/complete", h.User.CompleteSignup)
	authGroup.POST("/login", h.Limits.Login(), h.User.Login)
	authGroup.GET("/oauth/:provider", h.User.BeginOAuth)
	authGroup.GET("/oauth/:provider/callback", h.User.OAuthCallback)

	session := authGroup.Group("", h.Auth.Required())
	session.GET("/me", h.User.Me)
	session.POST("/logout", h.User.Logout)
	session.PUT("/password", h.User.ChangePassword)

	// Storefront, open to guests
	shop := api.Group("", h.Auth.Optional(), middleware.CartSession())
	shop.GET("/products", h.Product.ListProducts)
	shop.GET("/products/featured", h.Product.FeaturedProducts)
	shop.GET("/products/new-arrivals", h.Product.NewArrivals)
	shop.GET("/products/search", h.Limits.Search(), h.Product.SearchProducts)
	shop.GET("/products/:id", h.Product.GetProduct)

	shop.GET("/cart", h.User.GetCart)
	shop.GET("/cart/ws", h.User.CartWebSocket)
	cartWrites := shop.Group("/cart", h.Limits.Cart())
	cartWrites.POST("/items", h.User.AddToCart)
	cartWrites.PUT("/items/:id", h.User.UpdateCartItem)
	cartWrites.DELETE("/items/:id", h.User.RemoveCartItem)
	cartWrites.DELETE("", h.User.ClearCart)

	shop.POST("/ai/chat", h.Limits.Chat(), h.AI.Chat)
	shop.POST("/ai/recommendations", h.Limits.Chat(), h.AI.Recommendations)

	// Signed-in shoppers
	account := api.Group("", h.Auth.Required(), middleware.CartSession())
	account.GET("/address", h.User.GetAddress)
	account.PUT("/address", h.User.SaveAddress)
	account.POST("/checkout", h.User.Checkout)
	account.GET("/orders", h.User.ListOrders)

	api.POST("/payments/webhook", h.User.StripeWebhook)

	// Admin
	adminGroup := api.Group("/admin", h.Auth.Required(), middleware.RequireAdmin(h.Admins))
	adminGroup.POST("/products",
		middleware.AuditCriticalActions(h.Auditor, utils.ActionProductCreate, utils.ResourceProduct),
		h.Product.CreateProduct)
	adminGroup.PUT("/products/:id",
		middleware.AuditCriticalActions(h.Auditor, utils.ActionProductUpdate, utils.ResourceProduct),
		h.Product.UpdateProduct)
	adminGroup.DELETE("/products/:id",
		middleware.AuditCriticalActions(h.Auditor, utils.ActionProductDelete, utils.ResourceProduct),
		h.Product.DeleteProduct)

	adminGroup.GET("/admins", h.Admin.ListAdmins)
	adminGroup.POST("/admins",
		middleware.AuditCriticalActions(h.Auditor, utils.ActionAdminAdd, utils.ResourceAdmin),
		h.Admin.AddAdmin)
	adminGroup.DELETE("/admins/:email",
		middleware.AuditCriticalActions(h.Auditor, utils.ActionAdminRemove, utils.ResourceAdmin),
		h.Admin.RemoveAdmin)
}
