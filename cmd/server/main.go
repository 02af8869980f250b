package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"slices"
	"time"

	"lorve_back_end/internal/admins"
	"lorve_back_end/internal/ai"
	"lorve_back_end/internal/auth"
	"lorve_back_end/internal/cache"
	"lorve_back_end/internal/catalog"
	"lorve_back_end/internal/config"
	"lorve_back_end/internal/database"
	"lorve_back_end/internal/handlers/admin"
	aihandler "lorve_back_end/internal/handlers/ai"
	"lorve_back_end/internal/handlers/product"
	"lorve_back_end/internal/handlers/user"
	"lorve_back_end/internal/middleware"
	"lorve_back_end/internal/routes"
	"lorve_back_end/internal/services"
	"lorve_back_end/internal/utils"
	"lorve_back_end/pkg/sigctx"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config: %v", err)
	}

	ctx, stop := sigctx.NotifyContext()
	defer stop()

	conns, err := database.ConnectDatabases(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Databases: %v", err)
	}
	defer conns.Close()

	if err := database.EnsureSchema(ctx, conns.Scylla); err != nil {
		log.Fatalf("❌ Schema: %v", err)
	}

	r := gin.Default()
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	routes.RegisterRoutes(r, buildHandlers(ctx, cfg, conns))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Println("🚀 LORVÉ server listening on port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Shutdown: %v", err)
	}
}

// corsConfig allows credentials for the listed origins; "*" opens the
// API to any origin.
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		c.AllowOriginFunc = func(string) bool { return true }
	} else {
		c.AllowOrigins = origins
	}
	return c
}

func buildHandlers(ctx context.Context, cfg config.Config, conns *database.Connections) routes.Handlers {
	store := cache.New(conns.Redis)
	carts := cache.NewCartStore(conns.Redis)

	var (
		index  catalog.Index
		images catalog.ImageStore
	)
	var productIndex *services.ProductIndex
	if conns.Elastic != nil {
		productIndex = services.NewProductIndex(conns.Elastic, cfg.Elastic.Index)
		index = productIndex
	}
	if conns.MinIO != nil {
		images = services.NewImageStore(conns.MinIO, cfg.MinIO)
	}

	products := catalog.NewService(database.NewProductRepository(conns.Scylla), store, index, images)
	if _, err := products.Seed(ctx); err != nil {
		log.Printf("⚠️ Seed catalog: %v", err)
	}
	if productIndex != nil {
		if all, err := products.Products(ctx); err != nil {
			log.Printf("⚠️ Load catalog for indexing: %v", err)
		} else {
			productIndex.Reindex(ctx, all)
		}
	}

	allowList := admins.NewService(database.NewAdminRepository(conns.Scylla), store, cfg.AdminEmail)

	var gen ai.Generator
	if cfg.AI.APIKey != "" {
		g, err := ai.NewGemini(ctx, cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			log.Printf("⚠️ Gemini disabled: %v", err)
		} else {
			gen = g
			log.Println("✅ Gemini enabled")
		}
	} else {
		log.Println("⚠️ GEMINI_API_KEY not set, assistant disabled")
	}

	var payments user.Payments
	if p := services.NewPayments(cfg.StripeKey, cfg.StripeWebhook, cfg.Currency); p != nil {
		payments = p
		log.Println("✅ Stripe enabled")
	}

	auth.Setup(cfg)

	return routes.Handlers{
		Product: product.NewHandler(products, store),
		User: user.NewHandler(user.Deps{
			Users:          database.NewUserRepository(conns.Scylla),
			Tokens:         store,
			Mailer:         services.NewMailer(cfg.SMTP, cfg.BaseURL),
			Admins:         allowList,
			Orders:         database.NewOrderRepository(conns.Scylla),
			Payments:       payments,
			Products:       products,
			Carts:          carts,
			CartEvents:     carts,
			JWTSecret:      cfg.JWTSecret,
			BaseURL:        cfg.BaseURL,
			AllowedOrigins: cfg.CORSOrigins,
		}),
		Admin: admin.NewHandler(allowList),
		AI:    aihandler.NewHandler(ai.NewAssistant(gen, products), store),

		Auth:    middleware.NewAuth(cfg.JWTSecret, store),
		Limits:  middleware.NewRateLimiter(store),
		Admins:  allowList,
		Auditor: utils.NewAuditor(database.NewAuditRepository(conns.Scylla)),
	}
}
