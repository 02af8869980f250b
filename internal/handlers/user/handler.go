package user

import (
	"context"
	"net/http"
	"slices"
	"time"

	"lorve_back_end/internal/cart"
	"lorve_back_end/internal/models"
	"lorve_back_end/internal/services"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

type Users interface {
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, u models.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	GetAddress(ctx context.Context, userID string) (*models.Address, error)
	UpsertAddress(ctx context.Context, userID string, a models.Address) error
}

// Tokens holds the short-lived secrets of the auth flows.
type Tokens interface {
	StoreSignupToken(ctx context.Context, token, email string) error
	ConsumeSignupToken(ctx context.Context, token, email string) error
	BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error
	StoreOAuthRedirect(ctx context.Context, state, redirectURL string) error
	PopOAuthRedirect(ctx context.Context, state string) string
}

type Mailer interface {
	SendSignupLink(ctx context.Context, email, token string) error
	SendOrderConfirmation(ctx context.Context, order models.Order) error
}

type Orders interface {
	Create(ctx context.Context, o models.Order) error
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, userID string, createdAt time.Time, orderID, status string) error
}

// Payments is nil when no payment provider is configured.
type Payments interface {
	CreateIntent(ctx context.Context, amountCents int64, ref services.PaymentRef) (services.PaymentIntent, error)
	SucceededPayment(payload []byte, signature string) (services.PaymentRef, string, bool, error)
}

type Products interface {
	Product(ctx context.Context, id string) (models.Product, error)
}

type Admins interface {
	IsAdmin(ctx context.Context, email string) bool
}

type CartEvents interface {
	Subscribe(ctx context.Context, key string) *redis.PubSub
}

type Deps struct {
	Users      Users
	Tokens     Tokens
	Mailer     Mailer
	Admins     Admins
	Orders     Orders
	Payments   Payments
	Products   Products
	Carts      cart.Store
	CartEvents CartEvents

	JWTSecret      string
	BaseURL        string
	AllowedOrigins []string
}

type Handler struct {
	Deps
	upgrader websocket.Upgrader

	now        func() time.Time
	background func(func())
}

func NewHandler(d Deps) *Handler {
	h := &Handler{
		Deps:       d,
		now:        time.Now,
		background: func(f func()) { go f() },
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

// checkOrigin accepts same-host requests and the configured CORS origins.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || origin == h.BaseURL {
		return true
	}
	return slices.Contains(h.AllowedOrigins, "*") || slices.Contains(h.AllowedOrigins, origin)
}
