package services

import (
	"context"
	"testing"

	"storefront_back_end/internal/errs"
	"storefront_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestDeleteCategory(t *testing.T) {
	f := newStoreFixture()
	cache := &memoryCategoryCache{}
	svc := NewAdminService(f.repo, Hooks{Categories: cache})
	ctx := context.Background()

	err := svc.DeleteCategory(ctx, f.category.ID)
	require.ErrorIs(t, err, errs.ErrConstraintViolation)
	assert.Equal(t, "Impossible de supprimer une catégorie qui contient 2 produit(s)", errs.Public(err))
	assert.Zero(t, cache.invalidated)

	empty := f.repo.addCategory("Vide")
	require.NoError(t, svc.DeleteCategory(ctx, empty.ID))
	assert.Equal(t, 1, cache.invalidated)

	assert.ErrorIs(t, svc.DeleteCategory(ctx, empty.ID), errs.ErrNotFound)
}

func TestCreateCategorySlug(t *testing.T) {
	repo := newFakeRepo()
	svc := NewAdminService(repo, Hooks{})
	ctx := context.Background()

	first, err := svc.CreateCategory(ctx, models.CategoryInput{Name: "Accessoires Été"})
	require.NoError(t, err)
	assert.Equal(t, "accessoires-ete", first.Slug)

	second, err := svc.CreateCategory(ctx, models.CategoryInput{Name: "Accessoires été"})
	require.NoError(t, err)
	assert.Regexp(t, `^accessoires-ete-[a-z0-9]{5}$`, second.Slug)

	renamed, err := svc.UpdateCategory(ctx, first.ID, models.CategoryInput{Name: "Bijoux"})
	require.NoError(t, err)
	assert.Equal(t, "accessoires-ete", renamed.Slug)

	_, err = svc.CreateCategory(ctx, models.CategoryInput{Name: "  "})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestCreateProduct(t *testing.T) {
	f := newStoreFixture()
	search := &stubSearch{}
	cache := &memoryCategoryCache{}
	svc := NewAdminService(f.repo, Hooks{Search: search, Categories: cache})
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, models.ProductInput{
		Name:        "Robe Longue",
		CategoryID:  f.category.ID,
		Description: "Lin",
		Price:       price("89.90"),
		Stock:       intPtr(7),
		Sizes:       []string{"S", " ", "M"},
	})
	require.NoError(t, err)
	assert.Regexp(t, `^robe-longue-[a-z0-9]{5}$`, product.Slug)
	assert.True(t, product.Active)
	assert.Equal(t, []string{"S", "M"}, []string(product.Sizes))
	assert.Equal(t, []int64{product.ID}, search.indexed)
	assert.Equal(t, 1, cache.invalidated)

	_, err = svc.CreateProduct(ctx, models.ProductInput{Name: "X", CategoryID: 9999, Price: price("1"), Stock: intPtr(1)})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = svc.CreateProduct(ctx, models.ProductInput{Name: "X", CategoryID: f.category.ID, Price: price("-1"), Stock: intPtr(1)})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = svc.CreateProduct(ctx, models.ProductInput{Name: "X", CategoryID: f.category.ID, Price: price("1.999"), Stock: intPtr(1)})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = svc.CreateProduct(ctx, models.ProductInput{Name: "X", CategoryID: f.category.ID, Price: price("1"), Stock: intPtr(-2)})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	f := newStoreFixture()
	search := &stubSearch{}
	svc := NewAdminService(f.repo, Hooks{Search: search})
	ctx := context.Background()

	inactive := false
	updated, err := svc.UpdateProduct(ctx, f.a.ID, models.ProductInput{
		Name: "Produit A+", CategoryID: f.category.ID, Price: price("120"), Stock: intPtr(9), Active: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, f.a.Slug, updated.Slug)
	assert.False(t, updated.Active)
	assert.Equal(t, 9, f.repo.product(f.a.ID).Stock)

	require.NoError(t, svc.DeleteProduct(ctx, f.b.ID))
	assert.Equal(t, []int64{f.b.ID}, search.deleted)

	_, err = svc.GetProduct(ctx, f.b.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUpdateStock(t *testing.T) {
	f := newStoreFixture()
	stock := &recordingStock{}
	svc := NewAdminService(f.repo, Hooks{Stock: stock})
	ctx := context.Background()

	product, err := svc.UpdateStock(ctx, "admin", f.a.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, product.Stock)
	assert.Equal(t, 12, f.repo.product(f.a.ID).Stock)

	movements := stock.all()
	require.Len(t, movements, 1)
	assert.Equal(t, models.MovementAdjustment, movements[0].Type)
	assert.Equal(t, 7, movements[0].Quantity)

	_, err = svc.UpdateStock(ctx, "admin", f.a.ID, -1)
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = svc.UpdateStock(ctx, "admin", 9999, 1)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestAdminListProductsStockFilter(t *testing.T) {
	f := newStoreFixture()
	f.repo.addProduct(models.Product{CategoryID: f.category.ID, Name: "Épuisé", Price: price("5"), Stock: 0, Active: true})
	svc := NewAdminService(f.repo, Hooks{})
	ctx := context.Background()

	all, err := svc.ListProducts(ctx, AdminProductQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Pagination.TotalCount)

	out, err := svc.ListProducts(ctx, AdminProductQuery{Stock: models.StockFilterOut})
	require.NoError(t, err)
	require.Len(t, out.Data, 1)
	assert.Equal(t, "Épuisé", out.Data[0].Name)

	low, err := svc.ListProducts(ctx, AdminProductQuery{Stock: models.StockFilterLow})
	require.NoError(t, err)
	assert.Len(t, low.Data, 2)

	_, err = svc.ListProducts(ctx, AdminProductQuery{Stock: "plenty"})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestDashboard(t *testing.T) {
	f := newStoreFixture()
	placeOrder(t, f, alice)
	svc := NewAdminService(f.repo, Hooks{})

	dash, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, dash.Stats.TotalProducts)
	assert.Equal(t, 1, dash.Stats.TotalOrders)
	assert.Equal(t, 1, dash.Stats.PendingOrders)
	assert.Equal(t, 1, dash.Stats.OutOfStock)
	assert.True(t, price("295").Equal(dash.Stats.TotalRevenue))
	assert.Len(t, dash.RecentOrders, 1)
	assert.Equal(t, 1, dash.OrdersByStatus[models.StatusPending])
	require.NotEmpty(t, dash.LowStockItems)
	assert.Equal(t, f.b.ID, dash.LowStockItems[0].ID)
}

func TestReindex(t *testing.T) {
	f := newStoreFixture()
	search := &stubSearch{}
	svc := NewAdminService(f.repo, Hooks{Search: search})

	n, err := svc.Reindex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []int64{f.a.ID, f.b.ID}, search.indexed)
}
