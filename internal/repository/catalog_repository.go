package repository

import (
	"context"
	"fmt"
	"strings"

	"storefront_back_end/internal/errs"
	"storefront_back_end/internal/models"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const productColumns = `p.id, p.category_id, p.name, p.slug, p.description, p.price, p.stock,
	p.image, p.sizes, p.colors, p.material, p.featured, p.active, p.created_at, p.updated_at,
	COALESCE(c.name, '') AS category_name`

// escapeLike protège les jokers d'une recherche ILIKE.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func productWhere(f models.ProductFilter) (string, []interface{}) {
	conds := []string{"TRUE"}
	args := []interface{}{}
	add := func(format string, v interface{}) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(format, len(args)))
	}

	if f.OnlyActive {
		conds = append(conds, "p.active")
	}
	if f.OnlyInStock {
		conds = append(conds, "p.stock > 0")
	}
	if f.Featured {
		conds = append(conds, "p.featured")
	}
	if f.CategoryID != 0 {
		add("p.category_id = $%d", f.CategoryID)
	}
	if f.CategorySlug != "" {
		add("c.slug = $%d", f.CategorySlug)
	}
	if f.Search != "" {
		add("(p.name ILIKE $%[1]d OR p.description ILIKE $%[1]d)", escapeLike(f.Search))
	}
	if f.IDs != nil {
		add("p.id = ANY($%d)", pq.Array(f.IDs))
	}
	switch f.StockStatus {
	case models.StockFilterLow:
		conds = append(conds, fmt.Sprintf("p.stock > 0 AND p.stock <= %d", models.LowStockThreshold))
	case models.StockFilterOut:
		conds = append(conds, "p.stock = 0")
	}

	return strings.Join(conds, " AND "), args
}

func (r *RepositoryImpl) ListProducts(ctx context.Context, f models.ProductFilter) (data []models.Product, total int, err error) {
	where, args := productWhere(f)
	from := " FROM products p LEFT JOIN categories c ON c.id = p.category_id WHERE " + where

	if err = r.conn().GetContext(ctx, &total, "SELECT COUNT(*)"+from, args...); err != nil {
		log.Error().Err(err).Str("component", "ListProducts").Msg("")
		return nil, 0, translate(err, "count products")
	}

	query := "SELECT " + productColumns + from + " ORDER BY p.created_at DESC, p.id DESC"
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, (page-1)*f.Limit)
	}

	data = []models.Product{}
	if err = r.conn().SelectContext(ctx, &data, query, args...); err != nil {
		log.Error().Err(err).Str("component", "ListProducts").Msg("")
		return nil, 0, translate(err, "list products")
	}
	return data, total, nil
}

func (r *RepositoryImpl) GetProduct(ctx context.Context, id int64) (data models.Product, err error) {
	query := "SELECT " + productColumns + " FROM products p LEFT JOIN categories c ON c.id = p.category_id WHERE p.id = $1"
	err = r.conn().GetContext(ctx, &data, query, id)
	return data, translate(err, fmt.Sprintf("product %d", id))
}

func (r *RepositoryImpl) GetProductBySlug(ctx context.Context, slug string) (data models.Product, err error) {
	query := "SELECT " + productColumns + " FROM products p LEFT JOIN categories c ON c.id = p.category_id WHERE p.slug = $1"
	err = r.conn().GetContext(ctx, &data, query, slug)
	return data, translate(err, "product "+slug)
}

func (r *RepositoryImpl) RelatedProducts(ctx context.Context, product models.Product, limit int) (data []models.Product, err error) {
	query := "SELECT " + productColumns + ` FROM products p LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.category_id = $1 AND p.id <> $2 AND p.active AND p.stock > 0
		ORDER BY p.created_at DESC LIMIT $3`

	data = []models.Product{}
	if err = r.conn().SelectContext(ctx, &data, query, product.CategoryID, product.ID, limit); err != nil {
		log.Error().Err(err).Str("component", "RelatedProducts").Msg("")
		return nil, translate(err, "related products")
	}
	return data, nil
}

func (r *RepositoryImpl) ProductSlugExists(ctx context.Context, slug string) (exists bool, err error) {
	err = r.conn().GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM products WHERE slug = $1)", slug)
	return exists, translate(err, "product slug")
}

func (r *RepositoryImpl) CreateProduct(ctx context.Context, product *models.Product) (err error) {
	nstmt, err := r.conn().PrepareNamedContext(ctx, `INSERT INTO products
		(category_id, name, slug, description, price, stock, image, sizes, colors, material, featured, active)
		VALUES (:category_id, :name, :slug, :description, :price, :stock, :image, :sizes, :colors, :material, :featured, :active)
		RETURNING id, created_at, updated_at`)
	if err != nil {
		log.Error().Err(err).Str("component", "CreateProduct").Msg("")
		return translate(err, "prepare create product")
	}
	defer nstmt.Close()

	row := nstmt.QueryRowxContext(ctx, product)
	if err = row.Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt); err != nil {
		log.Error().Err(err).Str("component", "CreateProduct").Msg("")
		return translate(err, "create product")
	}
	return nil
}

func (r *RepositoryImpl) UpdateProduct(ctx context.Context, product *models.Product) (err error) {
	res, err := r.conn().NamedExecContext(ctx, `UPDATE products SET
		category_id = :category_id, name = :name, description = :description, price = :price,
		stock = :stock, image = :image, sizes = :sizes, colors = :colors, material = :material,
		featured = :featured, active = :active, updated_at = NOW()
		WHERE id = :id`, product)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateProduct").Msg("")
		return translate(err, "update product")
	}
	return expectOne(res, fmt.Sprintf("product %d", product.ID))
}

func (r *RepositoryImpl) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.conn().ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteProduct").Msg("")
		return translate(err, "delete product")
	}
	return expectOne(res, fmt.Sprintf("product %d", id))
}

func (r *RepositoryImpl) LockProducts(ctx context.Context, ids []int64) (data []models.Product, err error) {
	query := `SELECT p.id, p.category_id, p.name, p.slug, p.description, p.price, p.stock,
		p.image, p.sizes, p.colors, p.material, p.featured, p.active, p.created_at, p.updated_at
		FROM products p WHERE p.id = ANY($1) ORDER BY p.id FOR UPDATE`

	data = []models.Product{}
	if err = r.conn().SelectContext(ctx, &data, query, pq.Array(ids)); err != nil {
		log.Error().Err(err).Str("component", "LockProducts").Msg("")
		return nil, translate(err, "lock products")
	}
	return data, nil
}

func (r *RepositoryImpl) SetStock(ctx context.Context, id int64, stock int) error {
	res, err := r.conn().ExecContext(ctx, "UPDATE products SET stock = $1, updated_at = NOW() WHERE id = $2", stock, id)
	if err != nil {
		return translate(err, "set stock")
	}
	return expectOne(res, fmt.Sprintf("product %d", id))
}

func (r *RepositoryImpl) DecrementStock(ctx context.Context, id int64, qty int) error {
	res, err := r.conn().ExecContext(ctx,
		"UPDATE products SET stock = stock - $1, updated_at = NOW() WHERE id = $2 AND stock >= $1", qty, id)
	if err != nil {
		log.Error().Err(err).Str("component", "DecrementStock").Msg("")
		return translate(err, "decrement stock")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "decrement stock")
	}
	if n == 0 {
		return errors.Wrapf(errs.ErrInsufficientStock, "product %d", id)
	}
	return nil
}

func (r *RepositoryImpl) IncrementStock(ctx context.Context, id int64, qty int) error {
	_, err := r.conn().ExecContext(ctx,
		"UPDATE products SET stock = stock + $1, updated_at = NOW() WHERE id = $2", qty, id)
	if err != nil {
		log.Error().Err(err).Str("component", "IncrementStock").Msg("")
		return translate(err, "increment stock")
	}
	return nil
}

const categoryColumns = `c.id, c.name, c.slug, c.description, c.image, c.created_at, c.updated_at,
	COUNT(p.id) AS products_count,
	COUNT(p.id) FILTER (WHERE p.active AND p.stock > 0) AS available_count`

func (r *RepositoryImpl) ListCategories(ctx context.Context) (data []models.Category, err error) {
	query := "SELECT " + categoryColumns + ` FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id ORDER BY c.created_at DESC, c.id DESC`

	data = []models.Category{}
	if err = r.conn().SelectContext(ctx, &data, query); err != nil {
		log.Error().Err(err).Str("component", "ListCategories").Msg("")
		return nil, translate(err, "list categories")
	}
	return data, nil
}

func (r *RepositoryImpl) getCategoryWhere(ctx context.Context, cond string, arg interface{}) (data models.Category, err error) {
	query := "SELECT " + categoryColumns + ` FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		WHERE ` + cond + " GROUP BY c.id"
	err = r.conn().GetContext(ctx, &data, query, arg)
	return data, translate(err, fmt.Sprintf("category %v", arg))
}

func (r *RepositoryImpl) GetCategory(ctx context.Context, id int64) (models.Category, error) {
	return r.getCategoryWhere(ctx, "c.id = $1", id)
}

func (r *RepositoryImpl) GetCategoryBySlug(ctx context.Context, slug string) (models.Category, error) {
	return r.getCategoryWhere(ctx, "c.slug = $1", slug)
}

func (r *RepositoryImpl) CategorySlugExists(ctx context.Context, slug string) (exists bool, err error) {
	err = r.conn().GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM categories WHERE slug = $1)", slug)
	return exists, translate(err, "category slug")
}

func (r *RepositoryImpl) CountProductsInCategory(ctx context.Context, categoryID int64) (count int, err error) {
	err = r.conn().GetContext(ctx, &count, "SELECT COUNT(*) FROM products WHERE category_id = $1", categoryID)
	return count, translate(err, "count category products")
}

func (r *RepositoryImpl) CreateCategory(ctx context.Context, category *models.Category) (err error) {
	nstmt, err := r.conn().PrepareNamedContext(ctx, `INSERT INTO categories (name, slug, description, image)
		VALUES (:name, :slug, :description, :image) RETURNING id, created_at, updated_at`)
	if err != nil {
		log.Error().Err(err).Str("component", "CreateCategory").Msg("")
		return translate(err, "prepare create category")
	}
	defer nstmt.Close()

	if err = nstmt.QueryRowxContext(ctx, category).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt); err != nil {
		log.Error().Err(err).Str("component", "CreateCategory").Msg("")
		return translate(err, "create category")
	}
	return nil
}

func (r *RepositoryImpl) UpdateCategory(ctx context.Context, category *models.Category) error {
	res, err := r.conn().NamedExecContext(ctx, `UPDATE categories SET
		name = :name, description = :description, image = :image, updated_at = NOW()
		WHERE id = :id`, category)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateCategory").Msg("")
		return translate(err, "update category")
	}
	return expectOne(res, fmt.Sprintf("category %d", category.ID))
}

func (r *RepositoryImpl) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.conn().ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteCategory").Msg("")
		return translate(err, "delete category")
	}
	return expectOne(res, fmt.Sprintf("category %d", id))
}
