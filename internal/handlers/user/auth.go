package user

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"lorve_back_end/internal/cache"
	"lorve_back_end/internal/cart"
	"lorve_back_end/internal/database"
	"lorve_back_end/internal/handlers"
	"lorve_back_end/internal/middleware"
	"lorve_back_end/internal/models"
	"lorve_back_end/internal/utils"
	"lorve_back_end/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidCredentials = "Invalid email or password."

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// RequestSignupLink mails a one-time link that lets the address finish
// creating an account.
func (h *Handler) RequestSignupLink(c *gin.Context) {
	var input struct {
		Email string `json:"email"`
	}
	_ = c.ShouldBindJSON(&input)
	email := normalizeEmail(input.Email)
	if !validation.Email(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid email address."})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Users.GetByEmail(ctx, email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists."})
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		handlers.Fail(c, err)
		return
	}

	token := uuid.NewString()
	if err := h.Tokens.StoreSignupToken(ctx, token, email); err != nil {
		handlers.Fail(c, err)
		return
	}
	if err := h.Mailer.SendSignupLink(ctx, email, token); err != nil {
		log.Printf("❌ Send sign-up link to %s: %v", email, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not send the sign-up email. Please try again."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Check your inbox for a sign-up link."})
}

func (h *Handler) CompleteSignup(c *gin.Context) {
	var input struct {
		Email string `json:"email"`
		Token string `json:"token"`
		Name  string `json:"name"`
		validation.PasswordForm
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if fe := input.PasswordForm.Validate(); !fe.Empty() {
		handlers.FormError(c, http.StatusBadRequest, fe)
		return
	}

	ctx := c.Request.Context()
	email := normalizeEmail(input.Email)
	if err := h.Tokens.ConsumeSignupToken(ctx, input.Token, email); err != nil {
		if errors.Is(err, cache.ErrTokenInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "This sign-up link is invalid or has expired."})
			return
		}
		handlers.Fail(c, err)
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	u := models.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      strings.TrimSpace(input.Name),
		Password:  hash,
		Provider:  models.ProviderLocal,
		CreatedAt: h.now().UTC(),
	}
	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, database.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists."})
			return
		}
		handlers.Fail(c, err)
		return
	}
	log.Printf("✅ Account created for %s", email)

	h.signIn(c, u, http.StatusCreated)
}

func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	u, err := h.Users.GetByEmail(c.Request.Context(), normalizeEmail(input.Email))
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		handlers.Fail(c, err)
		return
	}
	if err != nil || u.Password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
		return
	}
	if ok, err := utils.VerifyPassword(input.Password, u.Password); err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
		return
	}

	h.signIn(c, u, http.StatusOK)
}

// signIn issues a session token, folds the guest cart into the user's
// cart and writes the response.
func (h *Handler) signIn(c *gin.Context, u models.User, status int) {
	token, err := utils.GenerateJWT([]byte(h.JWTSecret), u)
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	h.mergeGuestCart(c, u.ID)
	setTokenCookie(c, token)

	c.JSON(status, gin.H{
		"token":   token,
		"user":    u,
		"isAdmin": h.Admins.IsAdmin(c.Request.Context(), u.Email),
	})
}

func (h *Handler) mergeGuestCart(c *gin.Context, userID string) {
	id, ok := middleware.GuestCartID(c)
	if !ok {
		return
	}
	defer middleware.ClearCartCookie(c)

	ctx := c.Request.Context()
	guestKey := cart.GuestKey(id)
	guest, err := h.Carts.Load(ctx, guestKey)
	if err != nil {
		log.Printf("⚠️ Load guest cart: %v", err)
		return
	}
	if guest.IsEmpty() {
		return
	}

	userKey := cart.UserKey(userID)
	owned, err := h.Carts.Load(ctx, userKey)
	if err != nil {
		log.Printf("⚠️ Load cart of %s: %v", userID, err)
		return
	}
	owned.Merge(guest)
	if err := h.Carts.Save(ctx, userKey, owned); err != nil {
		log.Printf("⚠️ Save merged cart of %s: %v", userID, err)
		return
	}
	if err := h.Carts.Delete(ctx, guestKey); err != nil {
		log.Printf("⚠️ Delete guest cart: %v", err)
	}
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var form validation.PasswordForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if fe := form.Validate(); !fe.Empty() {
		handlers.FormError(c, http.StatusBadRequest, fe)
		return
	}

	hash, err := utils.HashPassword(form.Password)
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	if err := h.Users.UpdatePassword(c.Request.Context(), c.GetString(middleware.ContextUserID), hash); err != nil {
		handlers.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated successfully."})
}

// Logout revokes the current token for the rest of its lifetime.
func (h *Handler) Logout(c *gin.Context) {
	tokenID := c.GetString(middleware.ContextTokenID)
	if err := h.Tokens.BlacklistToken(c.Request.Context(), tokenID, middleware.TokenTTL(c)); err != nil {
		handlers.Fail(c, err)
		return
	}
	clearTokenCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) Me(c *gin.Context) {
	ctx := c.Request.Context()
	u, err := h.Users.GetByID(ctx, c.GetString(middleware.ContextUserID))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "isAdmin": h.Admins.IsAdmin(ctx, u.Email)})
}

func setTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(utils.TokenTTL.Seconds()), "/", "", c.Request.TLS != nil, true)
}

func clearTokenCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", c.Request.TLS != nil, true)
}
