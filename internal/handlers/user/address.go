package user

import (
	"net/http"

	"lorve_back_end/internal/handlers"
	"lorve_back_end/internal/middleware"
	"lorve_back_end/internal/models"
	"lorve_back_end/internal/validation"

	"github.com/gin-gonic/gin"
)

// GetAddress returns the saved shipping address, or null.
func (h *Handler) GetAddress(c *gin.Context) {
	addr, err := h.Users.GetAddress(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": addr})
}

func (h *Handler) SaveAddress(c *gin.Context) {
	var a models.Address
	if err := c.ShouldBindJSON(&a); err != nil {
		handlers.FormError(c, http.StatusBadRequest, validation.Global("Invalid request body"))
		return
	}
	if fe := validation.Address(a); !fe.Empty() {
		handlers.FormError(c, http.StatusBadRequest, fe)
		return
	}

	if err := h.Users.UpsertAddress(c.Request.Context(), c.GetString(middleware.ContextUserID), a); err != nil {
		handlers.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "address": a})
}
