package database

import (
	"context"

	"lorve_back_end/internal/models"

	"github.com/gocql/gocql"
)

type AuditRepository struct {
	session *gocql.Session
}

func NewAuditRepository(session *gocql.Session) *AuditRepository {
	return &AuditRepository{session: session}
}

func (r *AuditRepository) Insert(ctx context.Context, l models.AuditLog) error {
	err := r.session.Query(`INSERT INTO audit_logs (id, user_id, user_email, action, resource,
		resource_id, ip_address, user_agent, success, error_msg, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		gocql.TimeUUID(), l.UserID, l.UserEmail, l.Action, l.Resource, l.ResourceID,
		l.IPAddress, l.UserAgent, l.Success, l.ErrorMsg, l.Timestamp,
	).WithContext(ctx).Exec()
	return translate(err)
}
