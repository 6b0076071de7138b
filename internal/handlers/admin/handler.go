package admin

import (
	"context"
	"mime/multipart"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/services"
)

type CatalogAdmin interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, in models.CategoryInput) (models.Category, error)
	UpdateCategory(ctx context.Context, id int64, in models.CategoryInput) (models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListProducts(ctx context.Context, q services.AdminProductQuery) (models.Page[models.Product], error)
	GetProduct(ctx context.Context, id int64) (models.Product, error)
	CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error)
	UpdateProduct(ctx context.Context, id int64, in models.ProductInput) (models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	UpdateStock(ctx context.Context, actorID string, id int64, stock int) (models.Product, error)

	Dashboard(ctx context.Context) (models.Dashboard, error)
}

type OrderAdmin interface {
	ListAll(ctx context.Context, filter models.OrderFilter) (models.Page[models.Order], error)
	Get(ctx context.Context, orderID int64) (models.Order, error)
	UpdateStatus(ctx context.Context, actorID string, orderID int64, next models.OrderStatus) (models.Order, error)
}

type ImageStore interface {
	Upload(ctx context.Context, folder string, fh *multipart.FileHeader) (string, error)
	SignedURL(ctx context.Context, key string) (string, error)
}

// Handler : routes /api/admin. Images nil = upload désactivé (MinIO absent).
type Handler struct {
	catalog CatalogAdmin
	orders  OrderAdmin
	images  ImageStore
}

func NewHandler(catalog CatalogAdmin, orders OrderAdmin, images ImageStore) *Handler {
	return &Handler{catalog: catalog, orders: orders, images: images}
}
