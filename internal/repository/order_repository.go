package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront_back_end/internal/errs"
	"storefront_back_end/internal/models"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const orderColumns = `o.id, o.user_id, o.order_number, o.status, o.subtotal, o.tax, o.shipping, o.total,
	o.shipping_name, o.shipping_address, o.shipping_city, o.shipping_state, o.shipping_zip,
	o.shipping_country, o.shipping_phone, o.notes, o.created_at, o.updated_at`

// Numéro unique garanti par la séquence : ORD-AAAAMMJJ-000042.
func (r *RepositoryImpl) NextOrderNumber(ctx context.Context) (string, error) {
	var seq int64
	if err := r.conn().GetContext(ctx, &seq, "SELECT nextval('order_number_seq')"); err != nil {
		log.Error().Err(err).Str("component", "NextOrderNumber").Msg("")
		return "", translate(err, "order number")
	}
	return fmt.Sprintf("ORD-%s-%06d", time.Now().UTC().Format("20060102"), seq), nil
}

func (r *RepositoryImpl) CreateOrder(ctx context.Context, order *models.Order) (err error) {
	nstmt, err := r.conn().PrepareNamedContext(ctx, `INSERT INTO orders (user_id, order_number, status, subtotal, tax, shipping, total,
		shipping_name, shipping_address, shipping_city, shipping_state, shipping_zip, shipping_country, shipping_phone, notes)
		VALUES (:user_id, :order_number, :status, :subtotal, :tax, :shipping, :total,
		:shipping_name, :shipping_address, :shipping_city, :shipping_state, :shipping_zip, :shipping_country, :shipping_phone, :notes)
		RETURNING id, created_at, updated_at`)
	if err != nil {
		log.Error().Err(err).Str("component", "CreateOrder").Msg("")
		return translate(err, "prepare create order")
	}
	defer nstmt.Close()

	if err = nstmt.QueryRowxContext(ctx, order).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		log.Error().Err(err).Str("component", "CreateOrder").Msg("")
		return translate(err, "create order")
	}

	itemStmt, err := r.conn().PrepareNamedContext(ctx, `INSERT INTO order_items
		(order_id, product_id, product_name, price, quantity, size, color)
		VALUES (:order_id, :product_id, :product_name, :price, :quantity, :size, :color) RETURNING id`)
	if err != nil {
		log.Error().Err(err).Str("component", "CreateOrder").Msg("")
		return translate(err, "prepare order items")
	}
	defer itemStmt.Close()

	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		if err = itemStmt.GetContext(ctx, &order.Items[i].ID, order.Items[i]); err != nil {
			log.Error().Err(err).Str("component", "CreateOrder").Msg("")
			return translate(err, "create order item")
		}
	}
	return nil
}

func (r *RepositoryImpl) loadItems(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
		orders[i].Items = []models.OrderItem{}
	}

	var items []models.OrderItem
	err := r.conn().SelectContext(ctx, &items, `SELECT id, order_id, product_id, product_name, price, quantity, size, color
		FROM order_items WHERE order_id = ANY($1) ORDER BY id`, pq.Array(ids))
	if err != nil {
		log.Error().Err(err).Str("component", "loadItems").Msg("")
		return translate(err, "order items")
	}
	for _, it := range items {
		i := index[it.OrderID]
		orders[i].Items = append(orders[i].Items, it)
	}
	return nil
}

func (r *RepositoryImpl) GetOrder(ctx context.Context, id int64) (data models.Order, err error) {
	query := "SELECT " + orderColumns + `, COALESCE(u.name, '') AS customer_name, COALESCE(u.email, '') AS customer_email
		FROM orders o LEFT JOIN users u ON u.id = o.user_id WHERE o.id = $1`
	if err = r.conn().GetContext(ctx, &data, query, id); err != nil {
		return data, translate(err, fmt.Sprintf("order %d", id))
	}

	orders := []models.Order{data}
	if err = r.loadItems(ctx, orders); err != nil {
		return data, err
	}
	return orders[0], nil
}

func (r *RepositoryImpl) GetOrderForUpdate(ctx context.Context, id int64) (data models.Order, err error) {
	query := "SELECT " + orderColumns + " FROM orders o WHERE o.id = $1 FOR UPDATE"
	if err = r.conn().GetContext(ctx, &data, query, id); err != nil {
		return data, translate(err, fmt.Sprintf("order %d", id))
	}

	orders := []models.Order{data}
	if err = r.loadItems(ctx, orders); err != nil {
		return data, err
	}
	return orders[0], nil
}

func (r *RepositoryImpl) ListOrders(ctx context.Context, f models.OrderFilter) (data []models.Order, total int, err error) {
	conds := []string{"TRUE"}
	args := []interface{}{}
	add := func(format string, v interface{}) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(format, len(args)))
	}
	if f.UserID != "" {
		add("o.user_id = $%d", f.UserID)
	}
	if f.Status != "" {
		add("o.status = $%d", string(f.Status))
	}
	if f.Search != "" {
		add("(o.order_number ILIKE $%[1]d OR u.name ILIKE $%[1]d OR u.email ILIKE $%[1]d)", escapeLike(f.Search))
	}
	from := " FROM orders o LEFT JOIN users u ON u.id = o.user_id WHERE " + strings.Join(conds, " AND ")

	if err = r.conn().GetContext(ctx, &total, "SELECT COUNT(*)"+from, args...); err != nil {
		log.Error().Err(err).Str("component", "ListOrders").Msg("")
		return nil, 0, translate(err, "count orders")
	}

	query := "SELECT " + orderColumns + `, COALESCE(u.name, '') AS customer_name, COALESCE(u.email, '') AS customer_email` +
		from + " ORDER BY o.created_at DESC, o.id DESC"
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, (page-1)*f.Limit)
	}

	data = []models.Order{}
	if err = r.conn().SelectContext(ctx, &data, query, args...); err != nil {
		log.Error().Err(err).Str("component", "ListOrders").Msg("")
		return nil, 0, translate(err, "list orders")
	}
	if err = r.loadItems(ctx, data); err != nil {
		return nil, 0, err
	}
	return data, total, nil
}

func (r *RepositoryImpl) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	res, err := r.conn().ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2", string(status), id)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateOrderStatus").Msg("")
		return translate(err, "update order status")
	}
	return expectOne(res, fmt.Sprintf("order %d", id))
}

func (r *RepositoryImpl) SetLastOrder(ctx context.Context, userID string, orderID int64) error {
	_, err := r.conn().ExecContext(ctx, `INSERT INTO checkout_confirmations (user_id, last_order_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET last_order_id = EXCLUDED.last_order_id, updated_at = NOW()`,
		userID, orderID)
	if err != nil {
		log.Error().Err(err).Str("component", "SetLastOrder").Msg("")
		return translate(err, "last order")
	}
	return nil
}

func (r *RepositoryImpl) GetLastOrder(ctx context.Context, userID string) (orderID int64, err error) {
	err = r.conn().GetContext(ctx, &orderID,
		"SELECT last_order_id FROM checkout_confirmations WHERE user_id = $1", userID)
	if err != nil {
		return 0, translate(err, "last order")
	}
	if orderID == 0 {
		return 0, errors.Wrap(errs.ErrNotFound, "last order")
	}
	return orderID, nil
}
