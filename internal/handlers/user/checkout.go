package user

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"lorve_back_end/internal/cart"
	"lorve_back_end/internal/database"
	"lorve_back_end/internal/handlers"
	"lorve_back_end/internal/middleware"
	"lorve_back_end/internal/models"
	"lorve_back_end/internal/services"
	"lorve_back_end/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	webhookMaxBody   = int64(65536)
	confirmMailLimit = 30 * time.Second
)

// Checkout turns the user's cart into an order. With a payment provider
// the order starts pending and the client confirms the returned
// PaymentIntent; without one it is recorded as paid straight away.
func (h *Handler) Checkout(c *gin.Context) {
	var input struct {
		Address models.Address `json:"address"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		handlers.FormError(c, http.StatusBadRequest, validation.Global("Invalid request body"))
		return
	}

	ctx := c.Request.Context()
	userID := c.GetString(middleware.ContextUserID)
	key := middleware.CartKey(c)

	ct, err := h.Carts.Load(ctx, key)
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	if ct.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Your cart is empty."})
		return
	}
	if fe := validation.Address(input.Address); !fe.Empty() {
		handlers.FormError(c, http.StatusBadRequest, fe)
		return
	}
	if err := h.Users.UpsertAddress(ctx, userID, input.Address); err != nil {
		handlers.Fail(c, err)
		return
	}

	total := ct.Total()
	order := models.Order{
		ID:      uuid.NewString(),
		UserID:  userID,
		Email:   c.GetString(middleware.ContextEmail),
		Items:   ct.Items,
		Total:   cart.Amount(total),
		Status:  models.OrderStatusPaid,
		Address: input.Address,
		// the orders table stores millisecond timestamps
		CreatedAt: h.now().UTC().Truncate(time.Millisecond),
	}

	resp := gin.H{"success": true}
	if h.Payments != nil {
		pi, err := h.Payments.CreateIntent(ctx, cart.Cents(total), services.PaymentRef{
			UserID:    order.UserID,
			OrderID:   order.ID,
			CreatedAt: order.CreatedAt,
			Email:     order.Email,
		})
		if err != nil {
			log.Printf("❌ Checkout payment for %s: %v", userID, err)
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Payment could not be initiated. Please try again."})
			return
		}
		order.PaymentID = pi.ID
		order.Status = models.OrderStatusPending
		resp["clientSecret"] = pi.ClientSecret
	}

	if err := h.Orders.Create(ctx, order); err != nil {
		handlers.Fail(c, err)
		return
	}
	log.Printf("✅ Order %s placed by %s (%s)", order.ID, userID, order.Status)

	// a pending order keeps the cart until the payment succeeds
	if order.Status == models.OrderStatusPaid {
		h.clearCart(ctx, key, order.ID)
		h.confirmOrder(order)
	}
	resp["order"] = order
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) clearCart(ctx context.Context, key, orderID string) {
	if err := h.Carts.Delete(ctx, key); err != nil {
		log.Printf("⚠️ Clear cart after order %s: %v", orderID, err)
	}
}

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.Orders.ListByUser(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// StripeWebhook marks the order of a succeeded PaymentIntent as paid and
// sends the confirmation email.
func (h *Handler) StripeWebhook(c *gin.Context) {
	if h.Payments == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payments are not enabled"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, webhookMaxBody)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read body"})
		return
	}

	ref, paymentID, ok, err := h.Payments.SucceededPayment(payload, c.GetHeader("Stripe-Signature"))
	if errors.Is(err, services.ErrWebhookDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Webhook not configured"})
		return
	}
	if err != nil {
		log.Printf("❌ Stripe webhook: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	ctx := c.Request.Context()
	err = h.Orders.UpdateStatus(ctx, ref.UserID, ref.CreatedAt, ref.OrderID, models.OrderStatusPaid)
	if errors.Is(err, database.ErrNotFound) {
		log.Printf("⚠️ Payment %s for unknown order %s", paymentID, ref.OrderID)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	log.Printf("✅ Order %s paid (%s)", ref.OrderID, paymentID)
	h.clearCart(ctx, cart.UserKey(ref.UserID), ref.OrderID)

	if order, found := h.findOrder(ctx, ref); found {
		h.confirmOrder(order)
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *Handler) findOrder(ctx context.Context, ref services.PaymentRef) (models.Order, bool) {
	orders, err := h.Orders.ListByUser(ctx, ref.UserID)
	if err != nil {
		log.Printf("⚠️ Load orders of %s: %v", ref.UserID, err)
		return models.Order{}, false
	}
	for _, o := range orders {
		if o.ID == ref.OrderID {
			return o, true
		}
	}
	return models.Order{}, false
}

// confirmOrder mails the confirmation without holding up the response.
func (h *Handler) confirmOrder(order models.Order) {
	h.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), confirmMailLimit)
		defer cancel()
		if err := h.Mailer.SendOrderConfirmation(ctx, order); err != nil {
			log.Printf("❌ Order confirmation for %s: %v", order.ID, err)
		}
	})
}
