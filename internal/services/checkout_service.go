package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront_back_end/internal/errs"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/repository"

	"github.com/gocql/gocql"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type CheckoutSummary struct {
	Items []models.CartItem `json:"items"`
	models.Totals
}

type CheckoutService struct {
	repo  repository.Repository
	hooks Hooks
}

func NewCheckoutService(repo repository.Repository, hooks Hooks) *CheckoutService {
	return &CheckoutService{repo: repo, hooks: hooks.withDefaults()}
}

// Summary présente les montants du panier avant validation.
func (s *CheckoutService) Summary(ctx context.Context, userID string) (CheckoutSummary, error) {
	items, err := s.repo.GetCartItems(ctx, userID)
	if err != nil {
		return CheckoutSummary{}, err
	}
	if len(items) == 0 {
		return CheckoutSummary{}, errs.ErrEmptyCart
	}
	return CheckoutSummary{Items: items, Totals: ComputeTotals(items)}, nil
}

// PlaceOrder transforme le panier en commande dans une seule transaction :
// verrouillage et revalidation du stock, création de la commande et de ses lignes,
// décrément du stock, vidage du panier, mémorisation pour la confirmation.
func (s *CheckoutService) PlaceOrder(ctx context.Context, customer models.Customer, in models.ShippingDetails) (models.Order, error) {
	if err := validateShipping(in); err != nil {
		return models.Order{}, err
	}

	var order models.Order
	err := s.repo.HandleTrx(ctx, func(ctx context.Context, tx repository.Repository) error {
		// même ordre que CartService.Add : verrou utilisateur, puis produits
		if err := tx.LockUserCart(ctx, customer.ID); err != nil {
			return err
		}
		items, err := tx.GetCartItemsForUpdate(ctx, customer.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return errs.ErrEmptyCart
		}

		demand := make(map[int64]int, len(items))
		ids := make([]int64, 0, len(items))
		for _, item := range items {
			if _, seen := demand[item.ProductID]; !seen {
				ids = append(ids, item.ProductID)
			}
			demand[item.ProductID] += item.Quantity
		}

		locked, err := tx.LockProducts(ctx, ids)
		if err != nil {
			return err
		}
		fresh := make(map[int64]models.Product, len(locked))
		for _, p := range locked {
			fresh[p.ID] = p
		}

		for i, item := range items {
			p, ok := fresh[item.ProductID]
			if !ok {
				return errs.InsufficientStock(item.ProductID, item.Product.Name, 0, item.Quantity)
			}
			if p.Stock < demand[p.ID] {
				return errs.InsufficientStock(p.ID, p.Name, p.Stock, demand[p.ID])
			}
			items[i].Product = p
		}

		totals := ComputeTotals(items)
		number, err := tx.NextOrderNumber(ctx)
		if err != nil {
			return err
		}

		order = models.Order{
			UserID:          customer.ID,
			OrderNumber:     number,
			Status:          models.StatusPending,
			Subtotal:        totals.Subtotal,
			Tax:             totals.Tax,
			Shipping:        totals.Shipping,
			Total:           totals.Total,
			ShippingName:    in.Name,
			ShippingAddress: in.Address,
			ShippingCity:    in.City,
			ShippingState:   in.State,
			ShippingZip:     in.Zip,
			ShippingCountry: in.Country,
			ShippingPhone:   optional(in.Phone),
			Notes:           optional(in.Notes),
			Items:           make([]models.OrderItem, 0, len(items)),
		}
		for _, item := range items {
			productID := item.ProductID
			order.Items = append(order.Items, models.OrderItem{
				ProductID:   &productID,
				ProductName: item.Product.Name,
				Price:       item.Product.Price,
				Quantity:    item.Quantity,
				Size:        item.Size,
				Color:       item.Color,
			})
		}

		if err := tx.CreateOrder(ctx, &order); err != nil {
			return err
		}

		for _, item := range items {
			if err := tx.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, errs.ErrInsufficientStock) {
					p := fresh[item.ProductID]
					return errs.InsufficientStock(p.ID, p.Name, p.Stock, demand[p.ID])
				}
				return err
			}
		}

		if err := clearCheckedOutLines(ctx, tx, customer.ID, items); err != nil {
			return err
		}
		return tx.SetLastOrder(ctx, customer.ID, order.ID)
	})
	if err != nil {
		return models.Order{}, checkoutError(ctx, err)
	}

	log.Ctx(ctx).Info().Str("order_number", order.OrderNumber).Str("user_id", customer.ID).
		Str("total", order.Total.StringFixed(2)).Msg("✅ Commande créée")

	s.afterCommit(ctx, order, customer)
	return order, nil
}

// clearCheckedOutLines retire exactement les lignes commandées. Un écart
// signifie que le panier a changé sous la transaction : tout est annulé.
func clearCheckedOutLines(ctx context.Context, tx repository.Repository, userID string, items []models.CartItem) error {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	deleted, err := tx.DeleteCartItems(ctx, userID, ids)
	if err != nil {
		return err
	}
	switch {
	case deleted == int64(len(ids)):
		return nil
	case deleted == 0:
		return errs.ErrEmptyCart
	default:
		return pkgerrors.Wrapf(errs.ErrCheckoutFailed, "panier modifié pendant la commande (%d/%d lignes)", deleted, len(ids))
	}
}

// afterCommit : effets hors transaction, leurs échecs n'annulent pas la commande.
func (s *CheckoutService) afterCommit(ctx context.Context, order models.Order, customer models.Customer) {
	if err := s.hooks.Notifier.PublishCartEvent(ctx, customer.ID, CartEventCleared); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("notification panier")
	}
	if err := s.hooks.Categories.InvalidateCategories(ctx); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("invalidation cache catégories")
	}

	for _, item := range order.Items {
		movement := models.StockMovement{
			ID:        gocql.TimeUUID(),
			ProductID: *item.ProductID,
			Type:      models.MovementSale,
			Quantity:  -item.Quantity,
			OrderID:   order.ID,
			UserID:    customer.ID,
			CreatedAt: time.Now(),
		}
		if err := s.hooks.Stock.RecordStockMovement(ctx, movement); err != nil {
			log.Ctx(ctx).Warn().Err(err).Int64("product_id", movement.ProductID).Msg("mouvement de stock")
		}
	}

	if customer.Email == "" {
		return
	}
	go func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := s.hooks.Mailer.SendOrderConfirmation(ctx, order, customer.Email); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("order_number", order.OrderNumber).Msg("❌ Envoi e-mail de confirmation")
		}
	}(context.WithoutCancel(ctx))
}

// Confirmation relit la dernière commande passée par l'utilisateur.
func (s *CheckoutService) Confirmation(ctx context.Context, userID string) (models.Order, error) {
	orderID, err := s.repo.GetLastOrder(ctx, userID)
	if err != nil {
		return models.Order{}, err
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if order.UserID != userID {
		return models.Order{}, errs.ErrForbidden
	}
	return order, nil
}

func checkoutError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrEmptyCart),
		errors.Is(err, errs.ErrInsufficientStock),
		errors.Is(err, errs.ErrValidation):
		return err
	case errors.Is(err, errs.ErrCheckoutFailed):
		log.Ctx(ctx).Error().Err(err).Str("component", "PlaceOrder").Msg("❌ Transaction annulée")
		return err
	}
	log.Ctx(ctx).Error().Err(err).Str("component", "PlaceOrder").Msg("❌ Transaction annulée")
	return pkgerrors.Wrap(errs.ErrCheckoutFailed, err.Error())
}

func validateShipping(in models.ShippingDetails) error {
	required := []struct {
		field, value string
		max          int
	}{
		{"shipping_name", in.Name, 255},
		{"shipping_address", in.Address, 255},
		{"shipping_city", in.City, 255},
		{"shipping_state", in.State, 255},
		{"shipping_zip", in.Zip, 20},
		{"shipping_country", in.Country, 255},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errs.Validation("Le champ %s est obligatoire", r.field)
		}
		if len([]rune(r.value)) > r.max {
			return errs.Validation("Le champ %s dépasse %d caractères", r.field, r.max)
		}
	}
	if len([]rune(in.Phone)) > 20 {
		return errs.Validation("Le champ shipping_phone dépasse 20 caractères")
	}
	if len([]rune(in.Notes)) > 1000 {
		return errs.Validation("Le champ notes dépasse 1000 caractères")
	}
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
