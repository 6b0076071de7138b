package utils

import (
	"context"
	"encoding/json"
	"time"

	"storefront_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/rs/zerolog/log"
)

// Actions d'audit
const (
	ActionCategoryCreate = "category.create"
	ActionCategoryUpdate = "category.update"
	ActionCategoryDelete = "category.delete"

	ActionProductCreate = "product.create"
	ActionProductUpdate = "product.update"
	ActionProductDelete = "product.delete"
	ActionStockUpdate   = "stock.update"

	ActionOrderStatus = "order.status"
	ActionImageUpload = "image.upload"
)

const (
	ResourceCategory = "category"
	ResourceProduct  = "product"
	ResourceOrder    = "order"
	ResourceImage    = "image"
)

// Auditor écrit dans ScyllaDB. Sans session, toutes les écritures sont ignorées.
type Auditor struct {
	session *gocql.Session
}

func NewAuditor(session *gocql.Session) *Auditor {
	return &Auditor{session: session}
}

// LogAction enregistre une action admin en arrière-plan.
func (a *Auditor) LogAction(c *gin.Context, action, resource, resourceID string, newValue any) {
	if a == nil || a.session == nil {
		return
	}

	entry := models.AuditLog{
		ID:         gocql.TimeUUID(),
		UserID:     c.GetString("user_id"),
		UserEmail:  c.GetString("email"),
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
		Timestamp:  time.Now(),
	}
	if newValue != nil {
		if data, err := json.Marshal(newValue); err == nil {
			entry.NewValue = string(data)
		}
	}

	ctx := context.WithoutCancel(c.Request.Context())
	go func() {
		if err := a.insertAudit(ctx, entry); err != nil {
			log.Error().Err(err).Str("action", action).Msg("❌ Erreur enregistrement log audit")
		}
	}()
}

func (a *Auditor) insertAudit(ctx context.Context, entry models.AuditLog) error {
	return a.session.Query(`
		INSERT INTO audit_logs (
			id, user_id, user_email, action, resource, resource_id,
			new_value, ip_address, user_agent, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.UserEmail, entry.Action, entry.Resource,
		entry.ResourceID, entry.NewValue, entry.IPAddress, entry.UserAgent, entry.Timestamp,
	).WithContext(ctx).Exec()
}

// RecordStockMovement trace une vente, un retour ou un ajustement.
func (a *Auditor) RecordStockMovement(ctx context.Context, m models.StockMovement) error {
	if a == nil || a.session == nil {
		return nil
	}
	return a.session.Query(`
		INSERT INTO stock_movements (id, product_id, type, quantity, order_id, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ProductID, m.Type, m.Quantity, m.OrderID, m.UserID, m.CreatedAt,
	).WithContext(ctx).Exec()
}
