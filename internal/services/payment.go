package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/webhook"
)

// Metadata keys attached to every PaymentIntent so the webhook can find
// the order again.
const (
	MetaUserID    = "user_id"
	MetaOrderID   = "order_id"
	MetaCreatedAt = "created_at"
	MetaEmail     = "email"
)

var ErrWebhookDisabled = errors.New("stripe webhook secret not configured")

// PaymentRef identifies the order a payment belongs to.
type PaymentRef struct {
	UserID    string
	OrderID   string
	CreatedAt time.Time
	Email     string
}

type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// Payments creates Stripe PaymentIntents and verifies webhook events.
type Payments struct {
	currency      string
	webhookSecret string
}

// NewPayments sets the global Stripe key. It returns nil when no key is
// configured, in which case checkout runs without a payment provider.
func NewPayments(secretKey, webhookSecret, currency string) *Payments {
	if secretKey == "" {
		log.Println("⚠️ STRIPE_SECRET_KEY not set, payments disabled")
		return nil
	}
	stripe.Key = secretKey
	return &Payments{currency: currency, webhookSecret: webhookSecret}
}

func (p *Payments) CreateIntent(_ context.Context, amountCents int64, ref PaymentRef) (PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(p.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata(MetaUserID, ref.UserID)
	params.AddMetadata(MetaOrderID, ref.OrderID)
	params.AddMetadata(MetaCreatedAt, ref.CreatedAt.UTC().Format(time.RFC3339Nano))
	params.AddMetadata(MetaEmail, ref.Email)

	pi, err := paymentintent.New(params)
	if err != nil {
		return PaymentIntent{}, fmt.Errorf("create payment intent: %w", err)
	}
	return PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// SucceededPayment verifies a webhook payload. It returns the order
// reference for payment_intent.succeeded events and ok=false for any
// other event type.
func (p *Payments) SucceededPayment(payload []byte, signature string) (ref PaymentRef, paymentID string, ok bool, err error) {
	if p.webhookSecret == "" {
		return PaymentRef{}, "", false, ErrWebhookDisabled
	}
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		return PaymentRef{}, "", false, fmt.Errorf("invalid signature: %w", err)
	}

	log.Printf("📥 Stripe event received: %s", event.Type)
	if event.Type != stripe.EventTypePaymentIntentSucceeded {
		return PaymentRef{}, "", false, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return PaymentRef{}, "", false, fmt.Errorf("decode payment intent: %w", err)
	}
	ref, err = refFromMetadata(pi.Metadata)
	if err != nil {
		return PaymentRef{}, "", false, err
	}
	return ref, pi.ID, true, nil
}

func refFromMetadata(md map[string]string) (PaymentRef, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, md[MetaCreatedAt])
	if err != nil {
		return PaymentRef{}, fmt.Errorf("payment metadata: bad %s: %w", MetaCreatedAt, err)
	}
	ref := PaymentRef{
		UserID:    md[MetaUserID],
		OrderID:   md[MetaOrderID],
		CreatedAt: createdAt,
		Email:     md[MetaEmail],
	}
	if ref.UserID == "" || ref.OrderID == "" {
		return PaymentRef{}, errors.New("payment metadata: missing order reference")
	}
	return ref, nil
}
