package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) bool
}

// RequireAdmin lets through users on the admin allow-list. It must run
// after Auth.Required.
func RequireAdmin(admins AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !admins.IsAdmin(c.Request.Context(), c.GetString(ContextEmail)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}
