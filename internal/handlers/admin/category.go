package admin

import (
	"net/http"
	"strconv"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/response"

	"github.com/gin-gonic/gin"
)

// 🔵 Lister les catégories
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	response.WriteSuccess(c, http.StatusOK, "Catégories", categories)
}

// 🟢 Créer une catégorie
func (h *Handler) CreateCategory(c *gin.Context) {
	var in models.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.WriteBindingError(c, err)
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), in)
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	c.Set(middleware.AuditResourceIDKey, strconv.FormatInt(category.ID, 10))
	c.Set(middleware.AuditValueKey, category)
	response.WriteSuccess(c, http.StatusCreated, "Catégorie créée", category)
}

// 🟡 Modifier une catégorie (le slug ne change pas)
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	var in models.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.WriteBindingError(c, err)
		return
	}

	category, err := h.catalog.UpdateCategory(c.Request.Context(), id, in)
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	c.Set(middleware.AuditValueKey, category)
	response.WriteSuccess(c, http.StatusOK, "Catégorie mise à jour", category)
}

// 🔴 Supprimer une catégorie vide
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}

	if err := h.catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		response.WriteError(c, err, nil)
		return
	}
	response.WriteSuccess(c, http.StatusOK, "Catégorie supprimée", nil)
}
