// Package handlers holds the response helpers shared by the HTTP
// handler packages.
package handlers

import (
	"errors"
	"net/http"

	"lorve_back_end/internal/validation"

	"github.com/gin-gonic/gin"
)

// FormError writes the flattened form error shape
// {"success": false, "error": {"field": ["msg"]}}.
func FormError(c *gin.Context, status int, fe validation.FieldErrors) {
	c.JSON(status, gin.H{"success": false, "error": fe})
}

// Fail reports err as form errors when it carries them, otherwise as a
// generic server error.
func Fail(c *gin.Context, err error) {
	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		_ = c.Error(err)
		FormError(c, http.StatusBadRequest, fe)
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
}
