package services

import (
	"context"
	"errors"

	"storefront_back_end/internal/models"
)

const (
	CartEventUpdated = "updated"
	CartEventCleared = "cleared"
)

var ErrSearchUnavailable = errors.New("recherche indisponible")

// CartNotifier publie les changements de panier (canal cart:<userID>).
type CartNotifier interface {
	PublishCartEvent(ctx context.Context, userID, event string) error
}

type CategoryCache interface {
	GetCategories(ctx context.Context) ([]models.Category, bool)
	SetCategories(ctx context.Context, categories []models.Category) error
	InvalidateCategories(ctx context.Context) error
}

type ProductIndexer interface {
	SearchProductIDs(ctx context.Context, text string) ([]int64, error)
	IndexProduct(ctx context.Context, product models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type ImageSigner interface {
	SignedURL(ctx context.Context, key string) (string, error)
}

type OrderMailer interface {
	SendOrderConfirmation(ctx context.Context, order models.Order, to string) error
}

type StockRecorder interface {
	RecordStockMovement(ctx context.Context, movement models.StockMovement) error
}

// Hooks regroupe les intégrations optionnelles ; un champ nil est remplacé par un no-op.
type Hooks struct {
	Notifier   CartNotifier
	Categories CategoryCache
	Search     ProductIndexer
	Images     ImageSigner
	Mailer     OrderMailer
	Stock      StockRecorder
}

func (h Hooks) withDefaults() Hooks {
	if h.Notifier == nil {
		h.Notifier = nopHooks{}
	}
	if h.Categories == nil {
		h.Categories = nopHooks{}
	}
	if h.Search == nil {
		h.Search = nopHooks{}
	}
	if h.Images == nil {
		h.Images = nopHooks{}
	}
	if h.Mailer == nil {
		h.Mailer = nopHooks{}
	}
	if h.Stock == nil {
		h.Stock = nopHooks{}
	}
	return h
}

type nopHooks struct{}

func (nopHooks) PublishCartEvent(context.Context, string, string) error { return nil }
func (nopHooks) GetCategories(context.Context) ([]models.Category, bool) { return nil, false }
func (nopHooks) SetCategories(context.Context, []models.Category) error  { return nil }
func (nopHooks) InvalidateCategories(context.Context) error              { return nil }
func (nopHooks) SearchProductIDs(context.Context, string) ([]int64, error) {
	return nil, ErrSearchUnavailable
}
func (nopHooks) IndexProduct(context.Context, models.Product) error { return nil }
func (nopHooks) DeleteProduct(context.Context, int64) error         { return nil }
func (nopHooks) SignedURL(_ context.Context, key string) (string, error) {
	return key, nil
}
func (nopHooks) SendOrderConfirmation(context.Context, models.Order, string) error { return nil }
func (nopHooks) RecordStockMovement(context.Context, models.StockMovement) error   { return nil }
