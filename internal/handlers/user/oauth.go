package user

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"lorve_back_end/internal/database"
	"lorve_back_end/internal/handlers"
	"lorve_back_end/internal/models"
	"lorve_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
)

// withProvider exposes the :provider path param to gothic, which reads it
// from the query.
func withProvider(c *gin.Context) (string, bool) {
	provider := c.Param("provider")
	if _, err := goth.GetProvider(provider); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown sign-in provider"})
		return "", false
	}
	q := c.Request.URL.Query()
	q.Set("provider", provider)
	c.Request.URL.RawQuery = q.Encode()
	return provider, true
}

// BeginOAuth redirects to the provider's consent page. An optional
// ?redirect= on this site is remembered for the callback.
func (h *Handler) BeginOAuth(c *gin.Context) {
	if _, ok := withProvider(c); !ok {
		return
	}

	state := uuid.NewString()
	if redirect := c.Query("redirect"); h.sameSite(redirect) {
		if err := h.Tokens.StoreOAuthRedirect(c.Request.Context(), state, redirect); err != nil {
			log.Printf("⚠️ Store OAuth redirect: %v", err)
		}
	}
	q := c.Request.URL.Query()
	q.Set("state", state)
	c.Request.URL.RawQuery = q.Encode()

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

func (h *Handler) OAuthCallback(c *gin.Context) {
	provider, ok := withProvider(c)
	if !ok {
		return
	}

	gu, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		log.Printf("❌ OAuth callback (%s): %v", provider, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sign-in failed. Please try again."})
		return
	}
	email := normalizeEmail(gu.Email)
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Your account does not expose an email address."})
		return
	}

	u, err := h.oauthUser(c, provider, email, gu)
	if err != nil {
		handlers.Fail(c, err)
		return
	}

	token, err := utils.GenerateJWT([]byte(h.JWTSecret), u)
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	h.mergeGuestCart(c, u.ID)
	setTokenCookie(c, token)

	target := h.Tokens.PopOAuthRedirect(c.Request.Context(), c.Query("state"))
	if target == "" {
		target = h.BaseURL
	}
	c.Redirect(http.StatusTemporaryRedirect, target)
}

// oauthUser links the provider identity to the account with the same
// email, creating one when none exists.
func (h *Handler) oauthUser(c *gin.Context, provider, email string, gu goth.User) (models.User, error) {
	ctx := c.Request.Context()
	u, err := h.Users.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return models.User{}, err
	}

	u = models.User{
		ID:         uuid.NewString(),
		Email:      email,
		Name:       gu.Name,
		Provider:   provider,
		ProviderID: gu.UserID,
		CreatedAt:  h.now().UTC(),
	}
	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, database.ErrAlreadyExists) {
			return h.Users.GetByEmail(ctx, email)
		}
		return models.User{}, err
	}
	log.Printf("✅ Account created for %s via %s", email, provider)
	return u, nil
}

// sameSite accepts relative paths and absolute URLs under BASE_URL.
func (h *Handler) sameSite(target string) bool {
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") {
		return true
	}
	return target != "" && strings.HasPrefix(target, h.BaseURL+"/")
}
