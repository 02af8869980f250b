package database

import (
	"context"

	"lorve_back_end/internal/models"

	"github.com/gocql/gocql"
)

type AdminRepository struct {
	session *gocql.Session
}

func NewAdminRepository(session *gocql.Session) *AdminRepository {
	return &AdminRepository{session: session}
}

func (r *AdminRepository) List(ctx context.Context) ([]models.AdminEmail, error) {
	iter := r.session.Query(`SELECT email, added_by, added_at FROM admin_emails`).WithContext(ctx).Iter()

	admins := []models.AdminEmail{}
	var a models.AdminEmail
	for iter.Scan(&a.Email, &a.AddedBy, &a.AddedAt) {
		admins = append(admins, a)
		a = models.AdminEmail{}
	}
	if err := iter.Close(); err != nil {
		return nil, translate(err)
	}
	return admins, nil
}

func (r *AdminRepository) Add(ctx context.Context, a models.AdminEmail) error {
	applied, err := r.session.Query(`INSERT INTO admin_emails (email, added_by, added_at)
		VALUES (?, ?, ?) IF NOT EXISTS`, a.Email, a.AddedBy, a.AddedAt).
		WithContext(ctx).MapScanCAS(map[string]any{})
	if err != nil {
		return translate(err)
	}
	if !applied {
		return ErrAlreadyExists
	}
	return nil
}

func (r *AdminRepository) Remove(ctx context.Context, email string) error {
	err := r.session.Query(`DELETE FROM admin_emails WHERE email = ?`, email).WithContext(ctx).Exec()
	return translate(err)
}
