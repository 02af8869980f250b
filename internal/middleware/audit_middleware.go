package middleware

import (
	"fmt"

	"lorve_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// ContextAuditID lets a handler name the resource it created, for
// routes without an id parameter.
const ContextAuditID = "audit_resource_id"

// AuditCriticalActions records the outcome of an admin action once the
// handler has run.
func AuditCriticalActions(auditor *utils.Auditor, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		resourceID := c.GetString(ContextAuditID)
		if resourceID == "" {
			resourceID = c.Param("id")
		}
		if resourceID == "" {
			resourceID = c.Param("email")
		}

		errMsg := ""
		if status := c.Writer.Status(); status < 200 || status >= 300 {
			errMsg = fmt.Sprintf("request failed with status %d", status)
			if last := c.Errors.Last(); last != nil {
				errMsg = last.Error()
			}
		}
		auditor.Record(c, action, resource, resourceID, errMsg)
	}
}
