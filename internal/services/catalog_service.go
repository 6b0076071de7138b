package services

import (
	"context"
	"errors"
	"strings"

	"storefront_back_end/internal/errs"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	storePageSize = 12
	featuredLimit = 8
	relatedLimit  = 4
)

type CatalogQuery struct {
	Search   string
	Category string
	// Stock : "" ou "low" (dernières pièces). Les ruptures ne sont jamais listées.
	Stock string
	Page  int
}

type StoreHome struct {
	Featured   []models.Product  `json:"featured_products"`
	Categories []models.Category `json:"categories"`
}

type ProductDetail struct {
	Product models.Product   `json:"product"`
	Related []models.Product `json:"related_products"`
}

type CatalogService struct {
	repo  repository.Repository
	hooks Hooks
}

func NewCatalogService(repo repository.Repository, hooks Hooks) *CatalogService {
	return &CatalogService{repo: repo, hooks: hooks.withDefaults()}
}

// Home : produits mis en avant (actifs, en stock) et catégories.
func (s *CatalogService) Home(ctx context.Context) (StoreHome, error) {
	featured, _, err := s.repo.ListProducts(ctx, models.ProductFilter{
		OnlyActive:  true,
		OnlyInStock: true,
		Featured:    true,
		Page:        1,
		Limit:       featuredLimit,
	})
	if err != nil {
		return StoreHome{}, err
	}

	categories, err := s.Categories(ctx)
	if err != nil {
		return StoreHome{}, err
	}

	return StoreHome{Featured: s.signProducts(ctx, featured), Categories: categories}, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, q CatalogQuery) (models.Page[models.Product], error) {
	if q.Stock != "" && q.Stock != models.StockFilterLow {
		return models.Page[models.Product]{}, errs.Validation("Filtre de stock inconnu : %s", q.Stock)
	}
	page, limit := models.Normalize(q.Page, storePageSize, storePageSize)
	filter := models.ProductFilter{
		OnlyActive:   true,
		OnlyInStock:  true,
		CategorySlug: q.Category,
		StockStatus:  q.Stock,
		Page:         page,
		Limit:        limit,
	}
	s.resolveSearch(ctx, &filter, q.Search)

	products, total, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return models.Page[models.Product]{}, err
	}

	return models.Page[models.Product]{
		Data:       s.signProducts(ctx, products),
		Pagination: models.NewPagination(total, page, limit),
	}, nil
}

// resolveSearch passe par Elasticsearch ; en cas d'indisponibilité on garde l'ILIKE SQL.
func (s *CatalogService) resolveSearch(ctx context.Context, filter *models.ProductFilter, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	ids, err := s.hooks.Search.SearchProductIDs(ctx, text)
	if err != nil {
		if !errors.Is(err, ErrSearchUnavailable) {
			log.Ctx(ctx).Warn().Err(err).Str("component", "resolveSearch").Msg("fallback SQL")
		}
		filter.Search = text
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	filter.IDs = ids
}

func (s *CatalogService) GetProduct(ctx context.Context, slug string) (ProductDetail, error) {
	product, err := s.repo.GetProductBySlug(ctx, slug)
	if err != nil {
		return ProductDetail{}, err
	}
	if !product.Active {
		return ProductDetail{}, errs.ErrNotFound
	}

	related, err := s.repo.RelatedProducts(ctx, product, relatedLimit)
	if err != nil {
		return ProductDetail{}, err
	}

	return ProductDetail{
		Product: s.signProduct(ctx, product),
		Related: s.signProducts(ctx, related),
	}, nil
}

// Categories lit d'abord le cache Redis (categories:all).
func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	if cached, ok := s.hooks.Categories.GetCategories(ctx); ok {
		return cached, nil
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		categories[i].ImageURL = s.imageURL(ctx, categories[i].Image)
	}

	if err := s.hooks.Categories.SetCategories(ctx, categories); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component", "Categories").Msg("cache")
	}
	return categories, nil
}

func (s *CatalogService) imageURL(ctx context.Context, key string) string {
	return signImage(ctx, s.hooks.Images, key)
}

func (s *CatalogService) signProduct(ctx context.Context, p models.Product) models.Product {
	p.ImageURL = s.imageURL(ctx, p.Image)
	return p
}

func (s *CatalogService) signProducts(ctx context.Context, products []models.Product) []models.Product {
	for i := range products {
		products[i] = s.signProduct(ctx, products[i])
	}
	return products
}

func signImage(ctx context.Context, signer ImageSigner, key string) string {
	if key == "" {
		return ""
	}
	url, err := signer.SignedURL(ctx, key)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("image", key).Msg("URL signée indisponible")
		return ""
	}
	return url
}
