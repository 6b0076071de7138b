package services

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"storefront_back_end/internal/errs"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/repository"

	"github.com/shopspring/decimal"
)

type fakeUser struct {
	name, email, role string
}

type fakeData struct {
	products   map[int64]models.Product
	categories map[int64]models.Category
	cart       map[int64]models.CartItem
	orders     map[int64]models.Order
	lastOrder  map[string]int64
	users      map[string]fakeUser
	nextID     int64
	orderSeq   int64
}

func (d *fakeData) clone() *fakeData {
	c := &fakeData{
		products:   maps.Clone(d.products),
		categories: maps.Clone(d.categories),
		cart:       maps.Clone(d.cart),
		orders:     make(map[int64]models.Order, len(d.orders)),
		lastOrder:  maps.Clone(d.lastOrder),
		users:      maps.Clone(d.users),
		nextID:     d.nextID,
		orderSeq:   d.orderSeq,
	}
	for id, o := range d.orders {
		o.Items = slices.Clone(o.Items)
		c.orders[id] = o
	}
	return c
}

// fakeRepo : dépôt en mémoire. Les transactions sont sérialisées et annulées
// (restauration de l'instantané) quand fn renvoie une erreur.
type fakeRepo struct {
	mu     sync.Mutex
	txMu   sync.Mutex
	data   *fakeData
	failOn map[string]error
	// cartLocks trace les appels à LockUserCart, dans l'ordre.
	cartLocks []string
	// cartRace modifie le panier juste avant DeleteCartItems, comme une
	// transaction concurrente validée entre la lecture et la suppression.
	cartRace func(cart map[int64]models.CartItem)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		data: &fakeData{
			products:   map[int64]models.Product{},
			categories: map[int64]models.Category{},
			cart:       map[int64]models.CartItem{},
			orders:     map[int64]models.Order{},
			lastOrder:  map[string]int64{},
			users:      map[string]fakeUser{},
		},
		failOn: map[string]error{},
	}
}

func (r *fakeRepo) fail(op string) error {
	return r.failOn[op]
}

func (r *fakeRepo) id() int64 {
	r.data.nextID++
	return r.data.nextID
}

type fakeTx struct {
	*fakeRepo
}

func (t fakeTx) HandleTrx(ctx context.Context, fn func(ctx context.Context, repo repository.Repository) error) error {
	return fn(ctx, t)
}

func (r *fakeRepo) HandleTrx(ctx context.Context, fn func(ctx context.Context, repo repository.Repository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.Lock()
	snapshot := r.data.clone()
	r.mu.Unlock()

	if err := fn(ctx, fakeTx{r}); err != nil {
		r.mu.Lock()
		r.data = snapshot
		r.mu.Unlock()
		return err
	}
	return nil
}

// --- seed helpers ---

func (r *fakeRepo) addCategory(name string) models.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := models.Category{ID: r.id(), Name: name, Slug: Slugify(name), CreatedAt: time.Now()}
	r.data.categories[c.ID] = c
	return c
}

func (r *fakeRepo) addProduct(p models.Product) models.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.id()
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	p.CreatedAt = time.Now()
	r.data.products[p.ID] = p
	return p
}

func (r *fakeRepo) product(id int64) models.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data.products[id]
}

func (r *fakeRepo) setStock(id int64, stock int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.data.products[id]
	p.Stock = stock
	r.data.products[id] = p
}

func (r *fakeRepo) cartLines(userID string) []models.CartItem {
	items, _ := r.GetCartItems(context.Background(), userID)
	return items
}

func (r *fakeRepo) orderCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data.orders)
}

// --- catalogue ---

func matchProduct(p models.Product, c models.Category, f models.ProductFilter) bool {
	if f.OnlyActive && !p.Active {
		return false
	}
	if f.OnlyInStock && p.Stock <= 0 {
		return false
	}
	if f.Featured && !p.Featured {
		return false
	}
	if f.CategoryID != 0 && p.CategoryID != f.CategoryID {
		return false
	}
	if f.CategorySlug != "" && c.Slug != f.CategorySlug {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.Description), strings.ToLower(f.Search)) {
		return false
	}
	if f.IDs != nil && !slices.Contains(f.IDs, p.ID) {
		return false
	}
	switch f.StockStatus {
	case models.StockFilterLow:
		return p.Stock > 0 && p.Stock <= models.LowStockThreshold
	case models.StockFilterOut:
		return p.Stock == 0
	}
	return true
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	return items[start:min(start+limit, len(items))]
}

func (r *fakeRepo) ListProducts(_ context.Context, f models.ProductFilter) ([]models.Product, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.Product{}
	for _, p := range r.data.products {
		c := r.data.categories[p.CategoryID]
		if matchProduct(p, c, f) {
			p.CategoryName = c.Name
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b models.Product) int { return int(b.ID - a.ID) })
	return paginate(out, f.Page, f.Limit), len(out), nil
}

func (r *fakeRepo) GetProduct(_ context.Context, id int64) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.data.products[id]
	if !ok {
		return models.Product{}, errs.ErrNotFound
	}
	return p, nil
}

func (r *fakeRepo) GetProductBySlug(_ context.Context, slug string) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.data.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return models.Product{}, errs.ErrNotFound
}

func (r *fakeRepo) RelatedProducts(ctx context.Context, product models.Product, limit int) ([]models.Product, error) {
	all, _, _ := r.ListProducts(ctx, models.ProductFilter{CategoryID: product.CategoryID, OnlyActive: true, OnlyInStock: true})
	out := []models.Product{}
	for _, p := range all {
		if p.ID != product.ID && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepo) ProductSlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := r.GetProductBySlug(ctx, slug)
	return err == nil, nil
}

func (r *fakeRepo) CreateProduct(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.data.products {
		if p.Slug == product.Slug {
			return errs.ErrConflict
		}
	}
	product.ID = r.id()
	product.CreatedAt = time.Now()
	r.data.products[product.ID] = *product
	return nil
}

func (r *fakeRepo) UpdateProduct(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data.products[product.ID]; !ok {
		return errs.ErrNotFound
	}
	r.data.products[product.ID] = *product
	return nil
}

func (r *fakeRepo) DeleteProduct(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data.products[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.data.products, id)
	for cid, item := range r.data.cart {
		if item.ProductID == id {
			delete(r.data.cart, cid)
		}
	}
	for oid, o := range r.data.orders {
		for i, it := range o.Items {
			if it.ProductID != nil && *it.ProductID == id {
				o.Items[i].ProductID = nil
			}
		}
		r.data.orders[oid] = o
	}
	return nil
}

func (r *fakeRepo) LockProducts(_ context.Context, ids []int64) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Product{}
	for _, id := range slices.Sorted(slices.Values(ids)) {
		if p, ok := r.data.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepo) SetStock(_ context.Context, id int64, stock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.data.products[id]
	if !ok {
		return errs.ErrNotFound
	}
	p.Stock = stock
	r.data.products[id] = p
	return nil
}

func (r *fakeRepo) DecrementStock(_ context.Context, id int64, qty int) error {
	if err := r.fail("DecrementStock"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.data.products[id]
	if !ok || p.Stock < qty {
		return errs.ErrInsufficientStock
	}
	p.Stock -= qty
	r.data.products[id] = p
	return nil
}

func (r *fakeRepo) IncrementStock(_ context.Context, id int64, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.data.products[id]
	if !ok {
		return nil
	}
	p.Stock += qty
	r.data.products[id] = p
	return nil
}

func (r *fakeRepo) withCounts(c models.Category) models.Category {
	c.ProductsCount, c.AvailableCount = 0, 0
	for _, p := range r.data.products {
		if p.CategoryID == c.ID {
			c.ProductsCount++
			if p.Active && p.Stock > 0 {
				c.AvailableCount++
			}
		}
	}
	return c
}

func (r *fakeRepo) ListCategories(context.Context) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Category{}
	for _, c := range r.data.categories {
		out = append(out, r.withCounts(c))
	}
	slices.SortFunc(out, func(a, b models.Category) int { return int(b.ID - a.ID) })
	return out, nil
}

func (r *fakeRepo) GetCategory(_ context.Context, id int64) (models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.data.categories[id]
	if !ok {
		return models.Category{}, errs.ErrNotFound
	}
	return r.withCounts(c), nil
}

func (r *fakeRepo) GetCategoryBySlug(_ context.Context, slug string) (models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.data.categories {
		if c.Slug == slug {
			return r.withCounts(c), nil
		}
	}
	return models.Category{}, errs.ErrNotFound
}

func (r *fakeRepo) CategorySlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := r.GetCategoryBySlug(ctx, slug)
	return err == nil, nil
}

func (r *fakeRepo) CountProductsInCategory(ctx context.Context, categoryID int64) (int, error) {
	c, err := r.GetCategory(ctx, categoryID)
	if err != nil {
		return 0, nil
	}
	return c.ProductsCount, nil
}

func (r *fakeRepo) CreateCategory(_ context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.data.categories {
		if c.Slug == category.Slug {
			return errs.ErrConflict
		}
	}
	category.ID = r.id()
	category.CreatedAt = time.Now()
	r.data.categories[category.ID] = *category
	return nil
}

func (r *fakeRepo) UpdateCategory(_ context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data.categories[category.ID]; !ok {
		return errs.ErrNotFound
	}
	r.data.categories[category.ID] = *category
	return nil
}

func (r *fakeRepo) DeleteCategory(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data.categories[id]; !ok {
		return errs.ErrNotFound
	}
	for _, p := range r.data.products {
		if p.CategoryID == id {
			return errs.ErrConstraintViolation
		}
	}
	delete(r.data.categories, id)
	return nil
}

// --- panier ---

func (r *fakeRepo) GetCartItems(_ context.Context, userID string) ([]models.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.CartItem{}
	for _, item := range r.data.cart {
		if item.UserID == userID {
			item.Product = r.data.products[item.ProductID]
			out = append(out, item)
		}
	}
	slices.SortFunc(out, func(a, b models.CartItem) int { return int(a.ID - b.ID) })
	return out, nil
}

func (r *fakeRepo) GetCartItem(_ context.Context, id int64) (models.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.data.cart[id]
	if !ok {
		return models.CartItem{}, errs.ErrNotFound
	}
	item.Product = r.data.products[item.ProductID]
	return item, nil
}

func (r *fakeRepo) FindCartLine(_ context.Context, userID string, productID int64, size, color string) (models.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.data.cart {
		if item.UserID == userID && item.ProductID == productID && item.Size == size && item.Color == color {
			item.Product = r.data.products[item.ProductID]
			return item, nil
		}
	}
	return models.CartItem{}, errs.ErrNotFound
}

func (r *fakeRepo) CreateCartItem(_ context.Context, item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = r.id()
	item.CreatedAt = time.Now()
	r.data.cart[item.ID] = *item
	return nil
}

func (r *fakeRepo) UpdateCartItemQuantity(_ context.Context, id int64, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.data.cart[id]
	if !ok {
		return errs.ErrNotFound
	}
	item.Quantity = qty
	r.data.cart[id] = item
	return nil
}

func (r *fakeRepo) DeleteCartItem(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data.cart[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.data.cart, id)
	return nil
}

func (r *fakeRepo) LockUserCart(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cartLocks = append(r.cartLocks, userID)
	return nil
}

func (r *fakeRepo) GetCartItemsForUpdate(ctx context.Context, userID string) ([]models.CartItem, error) {
	return r.GetCartItems(ctx, userID)
}

func (r *fakeRepo) DeleteCartItems(_ context.Context, userID string, ids []int64) (int64, error) {
	if err := r.fail("DeleteCartItems"); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cartRace != nil {
		r.cartRace(r.data.cart)
	}
	var n int64
	for _, id := range ids {
		if item, ok := r.data.cart[id]; ok && item.UserID == userID {
			delete(r.data.cart, id)
			n++
		}
	}
	return n, nil
}

// --- commandes ---

func (r *fakeRepo) NextOrderNumber(context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.orderSeq++
	return fmt.Sprintf("ORD-%s-%06d", time.Now().UTC().Format("20060102"), r.data.orderSeq), nil
}

func (r *fakeRepo) CreateOrder(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.data.orders {
		if o.OrderNumber == order.OrderNumber {
			return errs.ErrConflict
		}
	}
	order.ID = r.id()
	order.CreatedAt = time.Now()
	for i := range order.Items {
		order.Items[i].ID = r.id()
		order.Items[i].OrderID = order.ID
	}
	stored := *order
	stored.Items = slices.Clone(order.Items)
	r.data.orders[order.ID] = stored
	return nil
}

func (r *fakeRepo) GetOrder(_ context.Context, id int64) (models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.data.orders[id]
	if !ok {
		return models.Order{}, errs.ErrNotFound
	}
	o.Items = slices.Clone(o.Items)
	u := r.data.users[o.UserID]
	o.CustomerName, o.CustomerEmail = u.name, u.email
	return o, nil
}

func (r *fakeRepo) GetOrderForUpdate(ctx context.Context, id int64) (models.Order, error) {
	return r.GetOrder(ctx, id)
}

func (r *fakeRepo) ListOrders(_ context.Context, f models.OrderFilter) ([]models.Order, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Order{}
	for _, o := range r.data.orders {
		if f.UserID != "" && o.UserID != f.UserID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		u := r.data.users[o.UserID]
		if f.Search != "" && !strings.Contains(o.OrderNumber+" "+u.name+" "+u.email, f.Search) {
			continue
		}
		o.Items = slices.Clone(o.Items)
		o.CustomerName, o.CustomerEmail = u.name, u.email
		out = append(out, o)
	}
	slices.SortFunc(out, func(a, b models.Order) int { return int(b.ID - a.ID) })
	return paginate(out, f.Page, f.Limit), len(out), nil
}

func (r *fakeRepo) UpdateOrderStatus(_ context.Context, id int64, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.data.orders[id]
	if !ok {
		return errs.ErrNotFound
	}
	o.Status = status
	r.data.orders[id] = o
	return nil
}

func (r *fakeRepo) SetLastOrder(_ context.Context, userID string, orderID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.lastOrder[userID] = orderID
	return nil
}

func (r *fakeRepo) GetLastOrder(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.data.lastOrder[userID]
	if !ok {
		return 0, errs.ErrNotFound
	}
	return id, nil
}

// --- tableau de bord ---

func (r *fakeRepo) DashboardStats(context.Context) (models.DashboardStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := models.DashboardStats{
		TotalProducts: len(r.data.products),
		TotalOrders:   len(r.data.orders),
		TotalRevenue:  decimal.Zero,
	}
	for _, u := range r.data.users {
		if u.role == models.RoleUser {
			stats.TotalCustomers++
		}
	}
	for _, o := range r.data.orders {
		if o.Status != models.StatusCancelled {
			stats.TotalRevenue = stats.TotalRevenue.Add(o.Total)
		}
		if o.Status == models.StatusPending {
			stats.PendingOrders++
		}
	}
	for _, p := range r.data.products {
		switch {
		case p.Stock == 0:
			stats.OutOfStock++
		case p.Stock <= models.DashboardStockThreshold:
			stats.LowStock++
		}
	}
	return stats, nil
}

func (r *fakeRepo) LowStockProducts(_ context.Context, threshold, limit int) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Product{}
	for _, p := range r.data.products {
		if p.Stock <= threshold {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b models.Product) int { return a.Stock - b.Stock })
	return paginate(out, 1, limit), nil
}

func (r *fakeRepo) OrdersByStatus(context.Context) (map[models.OrderStatus]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[models.OrderStatus]int{}
	for _, o := range r.data.orders {
		out[o.Status]++
	}
	return out, nil
}

var _ repository.Repository = (*fakeRepo)(nil)
