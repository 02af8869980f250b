package utils

import (
	"context"
	"log"
	"time"

	"lorve_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// Audited actions.
const (
	ActionProductCreate = "product.create"
	ActionProductUpdate = "product.update"
	ActionProductDelete = "product.delete"
	ActionAdminAdd      = "admin.add"
	ActionAdminRemove   = "admin.remove"
)

const (
	ResourceProduct = "product"
	ResourceAdmin   = "admin"
)

type AuditWriter interface {
	Insert(ctx context.Context, l models.AuditLog) error
}

// Auditor writes audit entries in the background so requests never wait
// on the audit table.
type Auditor struct {
	w       AuditWriter
	timeout time.Duration
	done    func()
}

func NewAuditor(w AuditWriter) *Auditor {
	return &Auditor{w: w, timeout: 5 * time.Second}
}

// Record captures the request details from c and stores the entry
// asynchronously. errMsg is empty on success.
func (a *Auditor) Record(c *gin.Context, action, resource, resourceID, errMsg string) {
	entry := models.AuditLog{
		UserID:     c.GetString("user_id"),
		UserEmail:  c.GetString("email"),
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
		Success:    errMsg == "",
		ErrorMsg:   errMsg,
		Timestamp:  time.Now(),
	}

	go func() {
		if a.done != nil {
			defer a.done()
		}
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		if err := a.w.Insert(ctx, entry); err != nil {
			log.Printf("❌ Audit log write failed (%s %s): %v", action, resourceID, err)
		}
	}()
}
