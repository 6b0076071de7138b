package services

import (
	"context"
	"errors"
	"slices"
	"strings"

	"storefront_back_end/internal/errs"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/repository"

	"github.com/rs/zerolog/log"
)

// CartService : le stock est vérifié à chaque mutation mais jamais réservé.
type CartService struct {
	repo  repository.Repository
	hooks Hooks
}

func NewCartService(repo repository.Repository, hooks Hooks) *CartService {
	return &CartService{repo: repo, hooks: hooks.withDefaults()}
}

func (s *CartService) Snapshot(ctx context.Context, userID string) (models.Cart, error) {
	items, err := s.repo.GetCartItems(ctx, userID)
	if err != nil {
		return models.Cart{}, err
	}
	for i := range items {
		items[i].Product.ImageURL = signImage(ctx, s.hooks.Images, items[i].Product.Image)
	}

	return models.Cart{
		Items:    items,
		Count:    len(items),
		Subtotal: ComputeTotals(items).Subtotal,
	}, nil
}

// Add incrémente la ligne (user, produit, taille, couleur) ou en crée une.
// La quantité cumulée ne doit pas dépasser le stock courant.
func (s *CartService) Add(ctx context.Context, userID string, in models.AddToCartInput) (models.Cart, error) {
	if in.Quantity < 1 {
		return models.Cart{}, errs.Validation("La quantité doit être au moins 1")
	}
	in.Size = strings.TrimSpace(in.Size)
	in.Color = strings.TrimSpace(in.Color)

	err := s.repo.HandleTrx(ctx, func(ctx context.Context, tx repository.Repository) error {
		// sérialisé avec un checkout concurrent du même utilisateur
		if err := tx.LockUserCart(ctx, userID); err != nil {
			return err
		}
		products, err := tx.LockProducts(ctx, []int64{in.ProductID})
		if err != nil {
			return err
		}
		if len(products) == 0 || !products[0].Active {
			return errs.ErrNotFound
		}
		product := products[0]

		if in.Size != "" && len(product.Sizes) > 0 && !slices.Contains(product.Sizes, in.Size) {
			return errs.Validation("Taille indisponible pour %s", product.Name)
		}
		if in.Color != "" && len(product.Colors) > 0 && !slices.Contains(product.Colors, in.Color) {
			return errs.Validation("Couleur indisponible pour %s", product.Name)
		}

		line, err := tx.FindCartLine(ctx, userID, product.ID, in.Size, in.Color)
		switch {
		case err == nil:
			combined := line.Quantity + in.Quantity
			if combined > product.Stock {
				return errs.InsufficientStock(product.ID, product.Name, product.Stock, combined)
			}
			return tx.UpdateCartItemQuantity(ctx, line.ID, combined)
		case errors.Is(err, errs.ErrNotFound):
			if in.Quantity > product.Stock {
				return errs.InsufficientStock(product.ID, product.Name, product.Stock, in.Quantity)
			}
			return tx.CreateCartItem(ctx, &models.CartItem{
				UserID:    userID,
				ProductID: product.ID,
				Quantity:  in.Quantity,
				Size:      in.Size,
				Color:     in.Color,
			})
		default:
			return err
		}
	})
	if err != nil {
		return models.Cart{}, err
	}

	s.notify(ctx, userID, CartEventUpdated)
	return s.Snapshot(ctx, userID)
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID string, itemID int64, qty int) (models.CartItem, error) {
	if qty < 1 {
		return models.CartItem{}, errs.Validation("La quantité doit être au moins 1")
	}

	item, err := s.repo.GetCartItem(ctx, itemID)
	if err != nil {
		return models.CartItem{}, err
	}
	if item.UserID != userID {
		return models.CartItem{}, errs.ErrForbidden
	}
	if qty > item.Product.Stock {
		return models.CartItem{}, errs.InsufficientStock(item.ProductID, item.Product.Name, item.Product.Stock, qty)
	}

	if err := s.repo.UpdateCartItemQuantity(ctx, itemID, qty); err != nil {
		return models.CartItem{}, err
	}
	item.Quantity = qty

	s.notify(ctx, userID, CartEventUpdated)
	return item, nil
}

func (s *CartService) Remove(ctx context.Context, userID string, itemID int64) error {
	item, err := s.repo.GetCartItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item.UserID != userID {
		return errs.ErrForbidden
	}

	if err := s.repo.DeleteCartItem(ctx, itemID); err != nil {
		return err
	}

	s.notify(ctx, userID, CartEventUpdated)
	return nil
}

func (s *CartService) notify(ctx context.Context, userID, event string) {
	if err := s.hooks.Notifier.PublishCartEvent(ctx, userID, event); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("notification panier")
	}
}
