package store

import (
	"context"
	"net/http"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/response"
	"storefront_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

type Catalog interface {
	Home(ctx context.Context) (services.StoreHome, error)
	ListProducts(ctx context.Context, q services.CatalogQuery) (models.Page[models.Product], error)
	GetProduct(ctx context.Context, slug string) (services.ProductDetail, error)
	Categories(ctx context.Context) ([]models.Category, error)
}

// Handler expose la vitrine publique.
type Handler struct {
	catalog Catalog
}

func NewHandler(catalog Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// 🏠 Accueil : produits mis en avant + catégories
func (h *Handler) Home(c *gin.Context) {
	home, err := h.catalog.Home(c.Request.Context())
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	response.WriteSuccess(c, http.StatusOK, "Accueil", home)
}

// 🔵 Catalogue : ?search=&category=<slug>&stock=low&page=
func (h *Handler) ListProducts(c *gin.Context) {
	page, err := h.catalog.ListProducts(c.Request.Context(), services.CatalogQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Stock:    c.Query("stock"),
		Page:     handlers.QueryPage(c),
	})
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	response.WriteSuccess(c, http.StatusOK, "Produits", page)
}

func (h *Handler) GetProduct(c *gin.Context) {
	detail, err := h.catalog.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	response.WriteSuccess(c, http.StatusOK, "Produit", detail)
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	response.WriteSuccess(c, http.StatusOK, "Catégories", categories)
}
