package repository

import (
	"context"

	"storefront_back_end/internal/models"

	"github.com/rs/zerolog/log"
)

func (r *RepositoryImpl) DashboardStats(ctx context.Context) (data models.DashboardStats, err error) {
	query := `SELECT
		(SELECT COUNT(*) FROM products) AS total_products,
		(SELECT COUNT(*) FROM orders) AS total_orders,
		(SELECT COUNT(*) FROM users WHERE role = 'user') AS total_customers,
		(SELECT COALESCE(SUM(total), 0) FROM orders WHERE status <> 'cancelled') AS total_revenue,
		(SELECT COUNT(*) FROM orders WHERE status = 'pending') AS pending_orders,
		(SELECT COUNT(*) FROM products WHERE stock > 0 AND stock <= $1) AS low_stock,
		(SELECT COUNT(*) FROM products WHERE stock = 0) AS out_of_stock`

	if err = r.conn().GetContext(ctx, &data, query, models.DashboardStockThreshold); err != nil {
		log.Error().Err(err).Str("component", "DashboardStats").Msg("")
		return data, translate(err, "dashboard stats")
	}
	return data, nil
}

func (r *RepositoryImpl) LowStockProducts(ctx context.Context, threshold, limit int) (data []models.Product, err error) {
	query := "SELECT " + productColumns + ` FROM products p LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.stock <= $1 ORDER BY p.stock, p.id LIMIT $2`

	data = []models.Product{}
	if err = r.conn().SelectContext(ctx, &data, query, threshold, limit); err != nil {
		log.Error().Err(err).Str("component", "LowStockProducts").Msg("")
		return nil, translate(err, "low stock products")
	}
	return data, nil
}

func (r *RepositoryImpl) OrdersByStatus(ctx context.Context) (map[models.OrderStatus]int, error) {
	var rows []struct {
		Status models.OrderStatus `db:"status"`
		Count  int                `db:"count"`
	}
	if err := r.conn().SelectContext(ctx, &rows, "SELECT status, COUNT(*) AS count FROM orders GROUP BY status"); err != nil {
		log.Error().Err(err).Str("component", "OrdersByStatus").Msg("")
		return nil, translate(err, "orders by status")
	}

	result := make(map[models.OrderStatus]int, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}
