package admin

import (
	"net/http"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/response"

	"github.com/gin-gonic/gin"
)

// GET /api/admin/orders?status=&search=&page=
func (h *Handler) ListOrders(c *gin.Context) {
	page, err := h.orders.ListAll(c.Request.Context(), models.OrderFilter{
		Status: models.OrderStatus(c.Query("status")),
		Search: c.Query("search"),
		Page:   handlers.QueryPage(c),
	})
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	response.WriteSuccess(c, http.StatusOK, "Commandes", page)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}

	order, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	response.WriteSuccess(c, http.StatusOK, "Commande", order)
}

// PATCH /api/admin/orders/:id/status
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	var in models.UpdateStatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.WriteBindingError(c, err)
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), c.GetString("user_id"), id, in.Status)
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	c.Set(middleware.AuditValueKey, gin.H{"status": order.Status})
	response.WriteSuccess(c, http.StatusOK, "Statut mis à jour", order)
}
