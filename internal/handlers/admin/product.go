package admin

import (
	"net/http"
	"strconv"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/response"
	"storefront_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/admin/products?search=&category=<id>&stock=low|out&page=
func (h *Handler) ListProducts(c *gin.Context) {
	page, err := h.catalog.ListProducts(c.Request.Context(), services.AdminProductQuery{
		Search:     c.Query("search"),
		CategoryID: handlers.QueryInt64(c, "category"),
		Stock:      c.Query("stock"),
		Page:       handlers.QueryPage(c),
	})
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	response.WriteSuccess(c, http.StatusOK, "Produits", page)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	response.WriteSuccess(c, http.StatusOK, "Produit", product)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.WriteBindingError(c, err)
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), in)
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	c.Set(middleware.AuditResourceIDKey, strconv.FormatInt(product.ID, 10))
	c.Set(middleware.AuditValueKey, product)
	response.WriteSuccess(c, http.StatusCreated, "Produit créé", product)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.WriteBindingError(c, err)
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), id, in)
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	c.Set(middleware.AuditValueKey, product)
	response.WriteSuccess(c, http.StatusOK, "Produit mis à jour", product)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}

	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		response.WriteError(c, err, nil)
		return
	}
	response.WriteSuccess(c, http.StatusOK, "Produit supprimé", nil)
}
