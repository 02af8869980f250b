package models

import "time"

// AdminEmail is one entry of the admin allow-list.
type AdminEmail struct {
	Email   string    `json:"email"`
	AddedBy string    `json:"addedBy,omitempty"`
	AddedAt time.Time `json:"addedAt"`
}

// AuditLog records an admin action.
type AuditLog struct {
	UserID     string    `json:"userId"`
	UserEmail  string    `json:"userEmail"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resourceId,omitempty"`
	IPAddress  string    `json:"ipAddress"`
	UserAgent  string    `json:"userAgent"`
	Success    bool      `json:"success"`
	ErrorMsg   string    `json:"errorMsg,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
