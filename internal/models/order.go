package models

import "time"

const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
)

type Order struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Email     string     `json:"email"`
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	Status    string     `json:"status"`
	PaymentID string     `json:"paymentId,omitempty"`
	Address   Address    `json:"address"`
	CreatedAt time.Time  `json:"createdAt"`
}
