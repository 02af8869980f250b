package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lorve_back_end/internal/models"

	"github.com/gocql/gocql"
)

type OrderRepository struct {
	session *gocql.Session
}

func NewOrderRepository(session *gocql.Session) *OrderRepository {
	return &OrderRepository{session: session}
}

func (r *OrderRepository) Create(ctx context.Context, o models.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	address, err := json.Marshal(o.Address)
	if err != nil {
		return fmt.Errorf("encode address: %w", err)
	}

	err = r.session.Query(`INSERT INTO orders (user_id, created_at, order_id, email, items, total,
		status, payment_id, address) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.UserID, o.CreatedAt, o.ID, o.Email, string(items), o.Total, o.Status, o.PaymentID, string(address),
	).WithContext(ctx).Exec()
	return translate(err)
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	iter := r.session.Query(`SELECT order_id, created_at, email, items, total, status, payment_id, address
		FROM orders WHERE user_id = ?`, userID).WithContext(ctx).Iter()

	orders := []models.Order{}
	var (
		o              models.Order
		items, address string
	)
	for iter.Scan(&o.ID, &o.CreatedAt, &o.Email, &items, &o.Total, &o.Status, &o.PaymentID, &address) {
		o.UserID = userID
		if err := json.Unmarshal([]byte(items), &o.Items); err != nil {
			_ = iter.Close()
			return nil, fmt.Errorf("decode items of order %s: %w", o.ID, err)
		}
		_ = json.Unmarshal([]byte(address), &o.Address)
		orders = append(orders, o)
		o = models.Order{}
	}
	if err := iter.Close(); err != nil {
		return nil, translate(err)
	}
	return orders, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, userID string, createdAt time.Time, orderID, status string) error {
	applied, err := r.session.Query(`UPDATE orders SET status = ? WHERE user_id = ? AND created_at = ? AND order_id = ? IF EXISTS`,
		status, userID, createdAt, orderID).WithContext(ctx).MapScanCAS(map[string]any{})
	if err != nil {
		return translate(err)
	}
	if !applied {
		return ErrNotFound
	}
	return nil
}
