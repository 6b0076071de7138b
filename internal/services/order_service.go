package services

import (
	"context"
	"time"

	"storefront_back_end/internal/errs"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/repository"

	"github.com/gocql/gocql"
	"github.com/rs/zerolog/log"
)

const (
	customerOrdersPageSize = 10
	adminOrdersPageSize    = 15
)

type OrderService struct {
	repo  repository.Repository
	hooks Hooks
}

func NewOrderService(repo repository.Repository, hooks Hooks) *OrderService {
	return &OrderService{repo: repo, hooks: hooks.withDefaults()}
}

func (s *OrderService) ListForUser(ctx context.Context, userID string, page int) (models.Page[models.Order], error) {
	page, limit := models.Normalize(page, customerOrdersPageSize, customerOrdersPageSize)
	return s.list(ctx, models.OrderFilter{UserID: userID, Page: page, Limit: limit})
}

func (s *OrderService) GetForUser(ctx context.Context, userID string, orderID int64) (models.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if order.UserID != userID {
		return models.Order{}, errs.ErrForbidden
	}
	return order, nil
}

// ListAll : vue admin, filtre par statut et recherche sur numéro, nom ou e-mail client.
func (s *OrderService) ListAll(ctx context.Context, filter models.OrderFilter) (models.Page[models.Order], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return models.Page[models.Order]{}, errs.Validation("Statut inconnu : %s", filter.Status)
	}
	filter.UserID = ""
	filter.Page, filter.Limit = models.Normalize(filter.Page, adminOrdersPageSize, adminOrdersPageSize)
	return s.list(ctx, filter)
}

func (s *OrderService) Get(ctx context.Context, orderID int64) (models.Order, error) {
	return s.repo.GetOrder(ctx, orderID)
}

func (s *OrderService) list(ctx context.Context, filter models.OrderFilter) (models.Page[models.Order], error) {
	orders, total, err := s.repo.ListOrders(ctx, filter)
	if err != nil {
		return models.Page[models.Order]{}, err
	}
	return models.Page[models.Order]{
		Data:       orders,
		Pagination: models.NewPagination(total, filter.Page, filter.Limit),
	}, nil
}

// UpdateStatus applique une transition. Passer en "cancelled" remet en stock
// chaque ligne une seule fois ; réannuler une commande annulée ne fait rien.
func (s *OrderService) UpdateStatus(ctx context.Context, actorID string, orderID int64, next models.OrderStatus) (models.Order, error) {
	if !next.Valid() {
		return models.Order{}, errs.Validation("Statut inconnu : %s", next)
	}

	var (
		order    models.Order
		restored bool
	)
	err := s.repo.HandleTrx(ctx, func(ctx context.Context, tx repository.Repository) error {
		current, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		order = current

		if current.Status == next {
			return nil
		}
		if !current.Status.CanTransitionTo(next) {
			return errs.Rule(errs.ErrInvalidTransition, "Impossible de passer de %s à %s", current.Status, next)
		}

		if next == models.StatusCancelled {
			for _, item := range current.Items {
				// produit supprimé depuis : rien à remettre en stock
				if item.ProductID == nil {
					continue
				}
				if err := tx.IncrementStock(ctx, *item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
			restored = true
		}

		if err := tx.UpdateOrderStatus(ctx, orderID, next); err != nil {
			return err
		}
		order.Status = next
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	if restored {
		s.recordReturns(ctx, actorID, order)
		if err := s.hooks.Categories.InvalidateCategories(ctx); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("invalidation cache catégories")
		}
		log.Ctx(ctx).Info().Str("order_number", order.OrderNumber).Msg("🔄 Commande annulée, stock restauré")
	}
	return order, nil
}

func (s *OrderService) recordReturns(ctx context.Context, actorID string, order models.Order) {
	for _, item := range order.Items {
		if item.ProductID == nil {
			continue
		}
		movement := models.StockMovement{
			ID:        gocql.TimeUUID(),
			ProductID: *item.ProductID,
			Type:      models.MovementReturn,
			Quantity:  item.Quantity,
			OrderID:   order.ID,
			UserID:    actorID,
			CreatedAt: time.Now(),
		}
		if err := s.hooks.Stock.RecordStockMovement(ctx, movement); err != nil {
			log.Ctx(ctx).Warn().Err(err).Int64("product_id", movement.ProductID).Msg("mouvement de stock")
		}
	}
}
