package models

import "time"

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

type User struct {
	ID         string    `json:"userId"`
	Email      string    `json:"email"`
	Name       string    `json:"name,omitempty"`
	Password   string    `json:"-"`
	Provider   string    `json:"provider,omitempty"`
	ProviderID string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}
