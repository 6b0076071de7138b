package user

import (
	"net/http"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/response"

	"github.com/gin-gonic/gin"
)

// 🛒 GET /api/cart
func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.deps.Cart.Snapshot(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	response.WriteSuccess(c, http.StatusOK, "Panier", cart)
}

// ➕ POST /api/cart
func (h *Handler) AddToCart(c *gin.Context) {
	var in models.AddToCartInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.WriteBindingError(c, err)
		return
	}

	cart, err := h.deps.Cart.Add(c.Request.Context(), c.GetString("user_id"), in)
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	response.WriteSuccess(c, http.StatusOK, "Produit ajouté au panier", cart)
}

// PUT /api/cart/:id
func (h *Handler) UpdateCartItem(c *gin.Context) {
	itemID, err := handlers.ParamID(c, "id")
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	var in models.UpdateCartInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.WriteBindingError(c, err)
		return
	}

	item, err := h.deps.Cart.UpdateQuantity(c.Request.Context(), c.GetString("user_id"), itemID, in.Quantity)
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	response.WriteSuccess(c, http.StatusOK, "Panier mis à jour", item)
}

// DELETE /api/cart/:id
func (h *Handler) RemoveCartItem(c *gin.Context) {
	itemID, err := handlers.ParamID(c, "id")
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}

	if err := h.deps.Cart.Remove(c.Request.Context(), c.GetString("user_id"), itemID); err != nil {
		response.WriteError(c, err, nil)
		return
	}
	response.WriteSuccess(c, http.StatusOK, "Produit retiré du panier", nil)
}
