package user

import (
	"errors"
	"net/http"

	"storefront_back_end/internal/errs"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/response"

	"github.com/gin-gonic/gin"
)

// GET /api/checkout : récapitulatif avant paiement
func (h *Handler) CheckoutSummary(c *gin.Context) {
	summary, err := h.deps.Checkout.Summary(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		response.WriteError(c, err, redirectHint(err))
		return
	}
	response.WriteSuccess(c, http.StatusOK, "Récapitulatif", summary)
}

// ✅ POST /api/checkout
func (h *Handler) PlaceOrder(c *gin.Context) {
	var in models.ShippingDetails
	if err := c.ShouldBindJSON(&in); err != nil {
		response.WriteBindingError(c, err)
		return
	}

	order, err := h.deps.Checkout.PlaceOrder(c.Request.Context(), middleware.CurrentCustomer(c), in)
	if err != nil {
		response.WriteError(c, err, redirectHint(err))
		return
	}
	response.WriteSuccess(c, http.StatusCreated, "Commande enregistrée", order)
}

// GET /api/checkout/confirmation : dernière commande passée
func (h *Handler) Confirmation(c *gin.Context) {
	order, err := h.deps.Checkout.Confirmation(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			response.WriteError(c, errs.Rule(errs.ErrNotFound, "Aucune commande récente"), gin.H{"redirect": "/api/store"})
			return
		}
		response.WriteError(c, err, nil)
		return
	}
	response.WriteSuccess(c, http.StatusOK, "Commande confirmée", order)
}

// redirectHint renvoie le client vers son panier : vide ou à corriger.
func redirectHint(err error) any {
	if errors.Is(err, errs.ErrEmptyCart) || errors.Is(err, errs.ErrInsufficientStock) {
		return gin.H{"redirect": "/api/cart"}
	}
	return nil
}
