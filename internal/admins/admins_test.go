package admins

import (
	"context"
	"errors"
	"testing"

	"lorve_back_end/internal/database"
	"lorve_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	emails map[string]models.AdminEmail
	err    error
	lists  int
}

func (r *fakeRepo) List(context.Context) ([]models.AdminEmail, error) {
	r.lists++
	if r.err != nil {
		return nil, r.err
	}
	out := []models.AdminEmail{}
	for _, a := range r.emails {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeRepo) Add(_ context.Context, a models.AdminEmail) error {
	if _, ok := r.emails[a.Email]; ok {
		return database.ErrAlreadyExists
	}
	r.emails[a.Email] = a
	return nil
}

func (r *fakeRepo) Remove(_ context.Context, email string) error {
	delete(r.emails, email)
	return nil
}

type memCache struct {
	emails []string
	ok     bool
}

func (c *memCache) GetAdmins(context.Context) ([]string, bool) { return c.emails, c.ok }
func (c *memCache) SetAdmins(_ context.Context, e []string) { c.emails, c.ok = e, true }
func (c *memCache) InvalidateAdmins(context.Context) { c.emails, c.ok = nil, false }

func newService() (*Service, *fakeRepo) {
	repo := &fakeRepo{emails: map[string]models.AdminEmail{
		"zoe@lorve.com": {Email: "zoe@lorve.com"},
		"Ana@Lorve.com": {Email: "Ana@Lorve.com"},
	}}
	return NewService(repo, &memCache{}, "Owner@Lorve.com"), repo
}

func TestList(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	emails, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ana@lorve.com", "owner@lorve.com", "zoe@lorve.com"}, emails)

	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lists)
}

func TestIsAdmin(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	assert.True(t, svc.IsAdmin(ctx, "owner@lorve.com"))
	assert.True(t, svc.IsAdmin(ctx, " ZOE@lorve.com"))
	assert.False(t, svc.IsAdmin(ctx, "guest@lorve.com"))
	assert.False(t, svc.IsAdmin(ctx, ""))

	svc.cache.InvalidateAdmins(ctx)
	repo.err = errors.New("down")
	assert.True(t, svc.IsAdmin(ctx, "OWNER@lorve.com"), "fallback admin does not need the store")
	assert.False(t, svc.IsAdmin(ctx, "zoe@lorve.com"))
}

func TestAdd(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	_, _ = svc.List(ctx)
	require.NoError(t, svc.Add(ctx, " New@Lorve.com ", "owner@lorve.com"))
	assert.Contains(t, repo.emails, "new@lorve.com")
	assert.True(t, svc.IsAdmin(ctx, "new@lorve.com"), "cache refreshed after add")

	assert.ErrorIs(t, svc.Add(ctx, "new@lorve.com", "owner@lorve.com"), ErrAlreadyAdmin)
	assert.ErrorIs(t, svc.Add(ctx, "owner@lorve.com", "owner@lorve.com"), ErrAlreadyAdmin)
	assert.ErrorIs(t, svc.Add(ctx, "not-an-email", "owner@lorve.com"), ErrInvalidEmail)
}

func TestRemove(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	assert.ErrorIs(t, svc.Remove(ctx, "OWNER@lorve.com"), ErrFallbackProtected)

	require.NoError(t, svc.Remove(ctx, "zoe@lorve.com"))
	assert.NotContains(t, repo.emails, "zoe@lorve.com")
	assert.False(t, svc.IsAdmin(ctx, "zoe@lorve.com"))
}
