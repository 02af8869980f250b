package admin

import (
	"context"
	"errors"
	"log"
	"net/http"

	"lorve_back_end/internal/admins"
	"lorve_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

type AllowList interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, email, addedBy string) error
	Remove(ctx context.Context, email string) error
}

type Handler struct {
	admins AllowList
}

func NewHandler(a AllowList) *Handler {
	return &Handler{admins: a}
}

func (h *Handler) ListAdmins(c *gin.Context) {
	emails, err := h.admins.List(c.Request.Context())
	if err != nil {
		log.Printf("❌ List admins: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Could not load admins"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "admins": emails})
}

func (h *Handler) AddAdmin(c *gin.Context) {
	var input struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email is required"})
		return
	}

	err := h.admins.Add(c.Request.Context(), input.Email, c.GetString(middleware.ContextEmail))
	switch {
	case errors.Is(err, admins.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid email address."})
		return
	case errors.Is(err, admins.ErrAlreadyAdmin):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "This email is already an admin."})
		return
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to add admin."})
		return
	}
	c.Set(middleware.ContextAuditID, input.Email)
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

func (h *Handler) RemoveAdmin(c *gin.Context) {
	err := h.admins.Remove(c.Request.Context(), c.Param("email"))
	if errors.Is(err, admins.ErrFallbackProtected) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "The primary admin cannot be removed."})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to remove admin."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
