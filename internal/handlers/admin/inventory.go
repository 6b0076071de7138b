package admin

import (
	"net/http"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/response"

	"github.com/gin-gonic/gin"
)

type stockInput struct {
	Stock *int `json:"stock" binding:"required,min=0"`
}

// UpdateStock - PATCH /api/admin/products/:id/stock, valeur absolue
func (h *Handler) UpdateStock(c *gin.Context) {
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	var in stockInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.WriteBindingError(c, err)
		return
	}

	product, err := h.catalog.UpdateStock(c.Request.Context(), c.GetString("user_id"), id, *in.Stock)
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	c.Set(middleware.AuditValueKey, gin.H{"stock": product.Stock})
	response.WriteSuccess(c, http.StatusOK, "Stock mis à jour", product)
}
