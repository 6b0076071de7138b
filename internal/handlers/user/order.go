package user

import (
	"net/http"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/response"

	"github.com/gin-gonic/gin"
)

// 📦 GET /api/orders
func (h *Handler) ListOrders(c *gin.Context) {
	page, err := h.deps.Orders.ListForUser(c.Request.Context(), c.GetString("user_id"), handlers.QueryPage(c))
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	response.WriteSuccess(c, http.StatusOK, "Commandes", page)
}

// GET /api/orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, err := handlers.ParamID(c, "id")
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}

	order, err := h.deps.Orders.GetForUser(c.Request.Context(), c.GetString("user_id"), orderID)
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	response.WriteSuccess(c, http.StatusOK, "Commande", order)
}
