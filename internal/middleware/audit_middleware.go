package middleware

import (
	"storefront_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// Clés de contexte renseignées par les handlers admin.
const (
	AuditValueKey      = "audit_value"
	AuditResourceIDKey = "audit_resource_id"
)

// AuditCriticalActions enregistre l'action admin après une réponse 2xx.
func AuditCriticalActions(auditor *utils.Auditor, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		resourceID := c.GetString(AuditResourceIDKey)
		if resourceID == "" {
			resourceID = c.Param("id")
		}
		value, _ := c.Get(AuditValueKey)
		auditor.LogAction(c, action, resource, resourceID, value)
	}
}
