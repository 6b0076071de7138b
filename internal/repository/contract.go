package repository

import (
	"context"

	"storefront_back_end/internal/models"
)

// Repository regroupe l'accès PostgreSQL. HandleTrx exécute fn dans une
// transaction ; le repo reçu par fn doit être utilisé pour toutes les écritures.
type Repository interface {
	HandleTrx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error

	CatalogRepository
	CartRepository
	OrderRepository
	DashboardRepository
}

type CatalogRepository interface {
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error)
	GetProduct(ctx context.Context, id int64) (models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (models.Product, error)
	RelatedProducts(ctx context.Context, product models.Product, limit int) ([]models.Product, error)
	ProductSlugExists(ctx context.Context, slug string) (bool, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error

	// LockProducts verrouille les lignes (SELECT ... FOR UPDATE) dans l'ordre des ids.
	LockProducts(ctx context.Context, ids []int64) ([]models.Product, error)
	SetStock(ctx context.Context, id int64, stock int) error
	// DecrementStock échoue avec errs.ErrInsufficientStock si le stock ne suffit plus.
	DecrementStock(ctx context.Context, id int64, qty int) error
	IncrementStock(ctx context.Context, id int64, qty int) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id int64) (models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (models.Category, error)
	CategorySlugExists(ctx context.Context, slug string) (bool, error)
	CountProductsInCategory(ctx context.Context, categoryID int64) (int, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error
}

type CartRepository interface {
	GetCartItems(ctx context.Context, userID string) ([]models.CartItem, error)
	GetCartItem(ctx context.Context, id int64) (models.CartItem, error)
	// FindCartLine retourne errs.ErrNotFound si aucune ligne ne correspond.
	FindCartLine(ctx context.Context, userID string, productID int64, size, color string) (models.CartItem, error)
	CreateCartItem(ctx context.Context, item *models.CartItem) error
	UpdateCartItemQuantity(ctx context.Context, id int64, qty int) error
	DeleteCartItem(ctx context.Context, id int64) error
	// LockUserCart, GetCartItemsForUpdate et DeleteCartItems ne servent qu'en transaction.
	LockUserCart(ctx context.Context, userID string) error
	GetCartItemsForUpdate(ctx context.Context, userID string) ([]models.CartItem, error)
	DeleteCartItems(ctx context.Context, userID string, ids []int64) (int64, error)
}

type OrderRepository interface {
	NextOrderNumber(ctx context.Context) (string, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id int64) (models.Order, error)
	GetOrderForUpdate(ctx context.Context, id int64) (models.Order, error)
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) error

	SetLastOrder(ctx context.Context, userID string, orderID int64) error
	GetLastOrder(ctx context.Context, userID string) (int64, error)
}

type DashboardRepository interface {
	DashboardStats(ctx context.Context) (models.DashboardStats, error)
	LowStockProducts(ctx context.Context, threshold, limit int) ([]models.Product, error)
	OrdersByStatus(ctx context.Context) (map[models.OrderStatus]int, error)
}
