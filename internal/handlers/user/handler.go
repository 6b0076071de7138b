package user

import (
	"context"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/services"

	"github.com/redis/go-redis/v9"
)

type CartService interface {
	Snapshot(ctx context.Context, userID string) (models.Cart, error)
	Add(ctx context.Context, userID string, in models.AddToCartInput) (models.Cart, error)
	UpdateQuantity(ctx context.Context, userID string, itemID int64, qty int) (models.CartItem, error)
	Remove(ctx context.Context, userID string, itemID int64) error
}

type CheckoutService interface {
	Summary(ctx context.Context, userID string) (services.CheckoutSummary, error)
	PlaceOrder(ctx context.Context, customer models.Customer, in models.ShippingDetails) (models.Order, error)
	Confirmation(ctx context.Context, userID string) (models.Order, error)
}

type OrderService interface {
	ListForUser(ctx context.Context, userID string, page int) (models.Page[models.Order], error)
	GetForUser(ctx context.Context, userID string, orderID int64) (models.Order, error)
}

type CartSubscriber interface {
	SubscribeCart(ctx context.Context, userID string) (*redis.PubSub, error)
}

type Deps struct {
	Cart     CartService
	Checkout CheckoutService
	Orders   OrderService
	// Subscriber nil : la synchronisation WebSocket est désactivée.
	Subscriber     CartSubscriber
	AllowedOrigins []string
}

// Handler regroupe les routes de l'acheteur connecté.
type Handler struct {
	deps Deps
}

func NewHandler(deps Deps) *Handler {
	return &Handler{deps: deps}
}
