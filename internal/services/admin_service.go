package services

import (
	"context"
	"strings"
	"time"

	"storefront_back_end/internal/errs"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/repository"

	"github.com/gocql/gocql"
	"github.com/rs/zerolog/log"
)

const (
	adminProductsPageSize = 15
	dashboardRecentOrders = 5
	dashboardLowStockList = 10
)

type AdminProductQuery struct {
	Search     string
	CategoryID int64
	Stock      string
	Page       int
}

type AdminService struct {
	repo  repository.Repository
	hooks Hooks
}

func NewAdminService(repo repository.Repository, hooks Hooks) *AdminService {
	return &AdminService{repo: repo, hooks: hooks.withDefaults()}
}

// --- Catégories ---

func (s *AdminService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		categories[i].ImageURL = signImage(ctx, s.hooks.Images, categories[i].Image)
	}
	return categories, nil
}

func (s *AdminService) CreateCategory(ctx context.Context, in models.CategoryInput) (models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Category{}, errs.Validation("Le nom de la catégorie est obligatoire")
	}

	slug := Slugify(name)
	exists, err := s.repo.CategorySlugExists(ctx, slug)
	if err != nil {
		return models.Category{}, err
	}
	if exists || slug == "" {
		slug = withSuffix(slug)
	}

	category := models.Category{
		Name:        name,
		Slug:        slug,
		Description: in.Description,
		Image:       in.Image,
	}
	if err := s.repo.CreateCategory(ctx, &category); err != nil {
		return models.Category{}, err
	}

	s.invalidateCategories(ctx)
	return category, nil
}

// UpdateCategory garde le slug existant pour ne pas casser les URLs.
func (s *AdminService) UpdateCategory(ctx context.Context, id int64, in models.CategoryInput) (models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Category{}, errs.Validation("Le nom de la catégorie est obligatoire")
	}

	category, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return models.Category{}, err
	}
	category.Name = name
	category.Description = in.Description
	category.Image = in.Image

	if err := s.repo.UpdateCategory(ctx, &category); err != nil {
		return models.Category{}, err
	}

	s.invalidateCategories(ctx)
	return category, nil
}

// DeleteCategory refuse la suppression tant que des produits y sont rattachés.
func (s *AdminService) DeleteCategory(ctx context.Context, id int64) error {
	err := s.repo.HandleTrx(ctx, func(ctx context.Context, tx repository.Repository) error {
		if _, err := tx.GetCategory(ctx, id); err != nil {
			return err
		}
		count, err := tx.CountProductsInCategory(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return errs.Rule(errs.ErrConstraintViolation,
				"Impossible de supprimer une catégorie qui contient %d produit(s)", count)
		}
		return tx.DeleteCategory(ctx, id)
	})
	if err != nil {
		return err
	}

	s.invalidateCategories(ctx)
	return nil
}

// --- Produits ---

func (s *AdminService) ListProducts(ctx context.Context, q AdminProductQuery) (models.Page[models.Product], error) {
	if q.Stock != "" && q.Stock != models.StockFilterLow && q.Stock != models.StockFilterOut {
		return models.Page[models.Product]{}, errs.Validation("Filtre de stock inconnu : %s", q.Stock)
	}
	page, limit := models.Normalize(q.Page, adminProductsPageSize, adminProductsPageSize)

	products, total, err := s.repo.ListProducts(ctx, models.ProductFilter{
		Search:      strings.TrimSpace(q.Search),
		CategoryID:  q.CategoryID,
		StockStatus: q.Stock,
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		return models.Page[models.Product]{}, err
	}
	for i := range products {
		products[i].ImageURL = signImage(ctx, s.hooks.Images, products[i].Image)
	}

	return models.Page[models.Product]{
		Data:       products,
		Pagination: models.NewPagination(total, page, limit),
	}, nil
}

func (s *AdminService) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	product.ImageURL = signImage(ctx, s.hooks.Images, product.Image)
	return product, nil
}

func (s *AdminService) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	if err := validateProduct(in); err != nil {
		return models.Product{}, err
	}
	if _, err := s.repo.GetCategory(ctx, in.CategoryID); err != nil {
		return models.Product{}, errs.Validation("Catégorie inconnue")
	}

	product := applyProductInput(models.Product{Slug: withSuffix(Slugify(in.Name))}, in)
	if err := s.repo.CreateProduct(ctx, &product); err != nil {
		return models.Product{}, err
	}

	s.afterProductChange(ctx, product)
	return product, nil
}

func (s *AdminService) UpdateProduct(ctx context.Context, id int64, in models.ProductInput) (models.Product, error) {
	if err := validateProduct(in); err != nil {
		return models.Product{}, err
	}
	if _, err := s.repo.GetCategory(ctx, in.CategoryID); err != nil {
		return models.Product{}, errs.Validation("Catégorie inconnue")
	}

	existing, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	product := applyProductInput(existing, in)
	if err := s.repo.UpdateProduct(ctx, &product); err != nil {
		return models.Product{}, err
	}

	s.afterProductChange(ctx, product)
	return product, nil
}

func (s *AdminService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	if err := s.hooks.Search.DeleteProduct(ctx, id); err != nil {
		log.Ctx(ctx).Warn().Err(err).Int64("product_id", id).Msg("désindexation")
	}
	s.invalidateCategories(ctx)
	return nil
}

// UpdateStock fixe le stock à une valeur absolue.
func (s *AdminService) UpdateStock(ctx context.Context, actorID string, id int64, stock int) (models.Product, error) {
	if stock < 0 {
		return models.Product{}, errs.Validation("Le stock ne peut pas être négatif")
	}

	var product models.Product
	err := s.repo.HandleTrx(ctx, func(ctx context.Context, tx repository.Repository) error {
		locked, err := tx.LockProducts(ctx, []int64{id})
		if err != nil {
			return err
		}
		if len(locked) == 0 {
			return errs.ErrNotFound
		}
		product = locked[0]
		if err := tx.SetStock(ctx, id, stock); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return models.Product{}, err
	}

	delta := stock - product.Stock
	product.Stock = stock
	if delta != 0 {
		movement := models.StockMovement{
			ID:        gocql.TimeUUID(),
			ProductID: id,
			Type:      models.MovementAdjustment,
			Quantity:  delta,
			UserID:    actorID,
			CreatedAt: time.Now(),
		}
		if err := s.hooks.Stock.RecordStockMovement(ctx, movement); err != nil {
			log.Ctx(ctx).Warn().Err(err).Int64("product_id", id).Msg("mouvement de stock")
		}
	}

	s.afterProductChange(ctx, product)
	return product, nil
}

func (s *AdminService) afterProductChange(ctx context.Context, product models.Product) {
	if err := s.hooks.Search.IndexProduct(ctx, product); err != nil {
		log.Ctx(ctx).Warn().Err(err).Int64("product_id", product.ID).Msg("indexation")
	}
	s.invalidateCategories(ctx)
}

func (s *AdminService) invalidateCategories(ctx context.Context) {
	if err := s.hooks.Categories.InvalidateCategories(ctx); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("invalidation cache catégories")
	}
}

func validateProduct(in models.ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return errs.Validation("Le nom du produit est obligatoire")
	}
	if in.Price.IsNegative() {
		return errs.Validation("Le prix ne peut pas être négatif")
	}
	if !in.Price.Equal(in.Price.Round(2)) {
		return errs.Validation("Le prix accepte au plus 2 décimales")
	}
	if in.Stock == nil || *in.Stock < 0 {
		return errs.Validation("Le stock doit être positif ou nul")
	}
	return nil
}

func applyProductInput(p models.Product, in models.ProductInput) models.Product {
	p.Name = strings.TrimSpace(in.Name)
	p.CategoryID = in.CategoryID
	p.Description = in.Description
	p.Price = in.Price.Round(2)
	p.Stock = *in.Stock
	p.Image = in.Image
	p.Sizes = nonEmpty(in.Sizes)
	p.Colors = nonEmpty(in.Colors)
	p.Material = in.Material
	p.Featured = in.Featured
	p.Active = true
	if in.Active != nil {
		p.Active = *in.Active
	}
	return p
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Reindex pousse tout le catalogue dans l'index de recherche. Renvoie le nombre de produits indexés.
func (s *AdminService) Reindex(ctx context.Context) (int, error) {
	products, _, err := s.repo.ListProducts(ctx, models.ProductFilter{})
	if err != nil {
		return 0, err
	}
	for i, p := range products {
		if err := s.hooks.Search.IndexProduct(ctx, p); err != nil {
			return i, err
		}
	}
	return len(products), nil
}

// --- Tableau de bord ---

func (s *AdminService) Dashboard(ctx context.Context) (models.Dashboard, error) {
	stats, err := s.repo.DashboardStats(ctx)
	if err != nil {
		return models.Dashboard{}, err
	}
	recent, _, err := s.repo.ListOrders(ctx, models.OrderFilter{Page: 1, Limit: dashboardRecentOrders})
	if err != nil {
		return models.Dashboard{}, err
	}
	lowStock, err := s.repo.LowStockProducts(ctx, models.LowStockThreshold, dashboardLowStockList)
	if err != nil {
		return models.Dashboard{}, err
	}
	byStatus, err := s.repo.OrdersByStatus(ctx)
	if err != nil {
		return models.Dashboard{}, err
	}

	stats.TotalRevenue = stats.TotalRevenue.Round(2)
	return models.Dashboard{
		Stats:          stats,
		RecentOrders:   recent,
		LowStockItems:  lowStock,
		OrdersByStatus: byStatus,
	}, nil
}
