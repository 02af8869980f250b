package database

import (
	"context"
	"time"

	"lorve_back_end/internal/models"

	"github.com/gocql/gocql"
)

type UserRepository struct {
	session *gocql.Session
}

func NewUserRepository(session *gocql.Session) *UserRepository {
	return &UserRepository{session: session}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	u := models.User{ID: id}
	err := r.session.Query(`SELECT email, password, name, provider, provider_id, created_at
		FROM users WHERE user_id = ?`, id).WithContext(ctx).
		Scan(&u.Email, &u.Password, &u.Name, &u.Provider, &u.ProviderID, &u.CreatedAt)
	if err != nil {
		return models.User{}, translate(err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var id string
	err := r.session.Query(`SELECT user_id FROM users_by_email WHERE email = ?`, email).
		WithContext(ctx).Scan(&id)
	if err != nil {
		return models.User{}, translate(err)
	}
	return r.GetByID(ctx, id)
}

// Create claims the email first so two sign-ups cannot share it.
func (r *UserRepository) Create(ctx context.Context, u models.User) error {
	applied, err := r.session.Query(`INSERT INTO users_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS`,
		u.Email, u.ID).WithContext(ctx).MapScanCAS(map[string]any{})
	if err != nil {
		return translate(err)
	}
	if !applied {
		return ErrAlreadyExists
	}

	err = r.session.Query(`INSERT INTO users (user_id, email, password, name, provider, provider_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Password, u.Name, u.Provider, u.ProviderID, u.CreatedAt,
	).WithContext(ctx).Exec()
	return translate(err)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	err := r.session.Query(`UPDATE users SET password = ? WHERE user_id = ?`, hash, id).
		WithContext(ctx).Exec()
	return translate(err)
}

// GetAddress returns the saved shipping address, or nil when none exists.
func (r *UserRepository) GetAddress(ctx context.Context, userID string) (*models.Address, error) {
	var a models.Address
	err := r.session.Query(`SELECT full_name, address_line1, address_line2, city, state,
		postal_code, country, phone FROM user_addresses WHERE user_id = ?`, userID).WithContext(ctx).
		Scan(&a.FullName, &a.AddressLine1, &a.AddressLine2, &a.City, &a.State, &a.PostalCode, &a.Country, &a.Phone)
	if err != nil {
		if err = translate(err); err == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *UserRepository) UpsertAddress(ctx context.Context, userID string, a models.Address) error {
	err := r.session.Query(`INSERT INTO user_addresses (user_id, full_name, address_line1, address_line2,
		city, state, postal_code, country, phone, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, a.FullName, a.AddressLine1, a.AddressLine2, a.City, a.State, a.PostalCode, a.Country,
		a.Phone, time.Now(),
	).WithContext(ctx).Exec()
	return translate(err)
}
