package services

import (
	"context"
	"sync"

	"storefront_back_end/internal/models"

	"github.com/shopspring/decimal"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) PublishCartEvent(_ context.Context, userID, event string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, userID+":"+event)
	return nil
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

type memoryCategoryCache struct {
	mu          sync.Mutex
	cached      []models.Category
	invalidated int
}

func (c *memoryCategoryCache) GetCategories(context.Context) ([]models.Category, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cached, c.cached != nil
}

func (c *memoryCategoryCache) SetCategories(_ context.Context, categories []models.Category) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = categories
	return nil
}

func (c *memoryCategoryCache) InvalidateCategories(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = nil
	c.invalidated++
	return nil
}

type sentMail struct {
	order models.Order
	to    string
}

type channelMailer chan sentMail

func (m channelMailer) SendOrderConfirmation(_ context.Context, order models.Order, to string) error {
	m <- sentMail{order: order, to: to}
	return nil
}

type recordingStock struct {
	mu        sync.Mutex
	movements []models.StockMovement
}

func (r *recordingStock) RecordStockMovement(_ context.Context, m models.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, m)
	return nil
}

func (r *recordingStock) all() []models.StockMovement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.StockMovement(nil), r.movements...)
}

type stubSearch struct {
	ids     []int64
	err     error
	indexed []int64
	deleted []int64
}

func (s *stubSearch) SearchProductIDs(context.Context, string) ([]int64, error) {
	return s.ids, s.err
}

func (s *stubSearch) IndexProduct(_ context.Context, p models.Product) error {
	s.indexed = append(s.indexed, p.ID)
	return nil
}

func (s *stubSearch) DeleteProduct(_ context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type prefixSigner string

func (p prefixSigner) SignedURL(_ context.Context, key string) (string, error) {
	return string(p) + key, nil
}

// storeFixture : une catégorie, deux produits actifs A (100.00, stock 5) et B (50.00, stock 1).
type storeFixture struct {
	repo     *fakeRepo
	category models.Category
	a, b     models.Product
}

func newStoreFixture() storeFixture {
	repo := newFakeRepo()
	cat := repo.addCategory("Robes")
	a := repo.addProduct(models.Product{CategoryID: cat.ID, Name: "Produit A", Price: price("100.00"), Stock: 5, Active: true, Featured: true})
	b := repo.addProduct(models.Product{CategoryID: cat.ID, Name: "Produit B", Price: price("50.00"), Stock: 1, Active: true})
	return storeFixture{repo: repo, category: cat, a: a, b: b}
}

func shipping() models.ShippingDetails {
	return models.ShippingDetails{
		Name:    "Camille Martin",
		Address: "12 rue des Lilas",
		City:    "Lyon",
		State:   "Rhône",
		Zip:     "69001",
		Country: "France",
	}
}
