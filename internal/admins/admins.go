// Package admins manages the admin email allow-list. The fallback admin
// from the configuration is always an admin and never stored.
package admins

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"lorve_back_end/internal/database"
	"lorve_back_end/internal/models"
	"lorve_back_end/internal/validation"
)

var (
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrAlreadyAdmin      = errors.New("this email is already an admin")
	ErrFallbackProtected = errors.New("the primary admin cannot be removed")
)

type Repository interface {
	List(ctx context.Context) ([]models.AdminEmail, error)
	Add(ctx context.Context, a models.AdminEmail) error
	Remove(ctx context.Context, email string) error
}

type Cache interface {
	GetAdmins(ctx context.Context) ([]string, bool)
	SetAdmins(ctx context.Context, emails []string)
	InvalidateAdmins(ctx context.Context)
}

type Service struct {
	repo     Repository
	cache    Cache
	fallback string
}

func NewService(repo Repository, cache Cache, fallbackAdmin string) *Service {
	return &Service{repo: repo, cache: cache, fallback: normalize(fallbackAdmin)}
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// List returns every admin email, fallback included, lowercased and sorted.
func (s *Service) List(ctx context.Context) ([]string, error) {
	if emails, ok := s.cache.GetAdmins(ctx); ok {
		return emails, nil
	}

	stored, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}

	set := map[string]bool{}
	if s.fallback != "" {
		set[s.fallback] = true
	}
	for _, a := range stored {
		set[normalize(a.Email)] = true
	}
	emails := make([]string, 0, len(set))
	for e := range set {
		emails = append(emails, e)
	}
	sort.Strings(emails)

	s.cache.SetAdmins(ctx, emails)
	return emails, nil
}

func (s *Service) IsAdmin(ctx context.Context, email string) bool {
	email = normalize(email)
	if email == "" {
		return false
	}
	if email == s.fallback {
		return true
	}
	emails, err := s.List(ctx)
	if err != nil {
		log.Printf("⚠️ Admin lookup failed for %s: %v", email, err)
		return false
	}
	i := sort.SearchStrings(emails, email)
	return i < len(emails) && emails[i] == email
}

func (s *Service) Add(ctx context.Context, email, addedBy string) error {
	email = normalize(email)
	if !validation.Email(email) {
		return ErrInvalidEmail
	}
	if email == s.fallback {
		return ErrAlreadyAdmin
	}

	err := s.repo.Add(ctx, models.AdminEmail{Email: email, AddedBy: normalize(addedBy), AddedAt: time.Now()})
	if errors.Is(err, database.ErrAlreadyExists) {
		return ErrAlreadyAdmin
	}
	if err != nil {
		return fmt.Errorf("add admin: %w", err)
	}

	s.cache.InvalidateAdmins(ctx)
	log.Printf("✅ Admin added: %s (by %s)", email, addedBy)
	return nil
}

func (s *Service) Remove(ctx context.Context, email string) error {
	email = normalize(email)
	if email == s.fallback {
		return ErrFallbackProtected
	}
	if err := s.repo.Remove(ctx, email); err != nil {
		return fmt.Errorf("remove admin: %w", err)
	}

	s.cache.InvalidateAdmins(ctx)
	log.Printf("🗑️ Admin removed: %s", email)
	return nil
}
