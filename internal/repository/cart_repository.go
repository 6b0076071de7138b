package repository

import (
	"context"
	"fmt"

	"storefront_back_end/internal/models"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const cartItemColumns = `ci.id, ci.user_id, ci.product_id, ci.quantity, ci.size, ci.color, ci.created_at, ci.updated_at,
	p.id AS "product.id", p.category_id AS "product.category_id", p.name AS "product.name",
	p.slug AS "product.slug", p.description AS "product.description", p.price AS "product.price",
	p.stock AS "product.stock", p.image AS "product.image", p.sizes AS "product.sizes",
	p.colors AS "product.colors", p.material AS "product.material", p.featured AS "product.featured",
	p.active AS "product.active", p.created_at AS "product.created_at", p.updated_at AS "product.updated_at"`

func (r *RepositoryImpl) GetCartItems(ctx context.Context, userID string) (data []models.CartItem, err error) {
	query := "SELECT " + cartItemColumns + ` FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1 ORDER BY ci.created_at, ci.id`

	data = []models.CartItem{}
	if err = r.conn().SelectContext(ctx, &data, query, userID); err != nil {
		log.Error().Err(err).Str("component", "GetCartItems").Msg("")
		return nil, translate(err, "cart items")
	}
	return data, nil
}

// LockUserCart sérialise les transactions panier d'un même utilisateur
// (verrou consultatif relâché au commit ou au rollback).
func (r *RepositoryImpl) LockUserCart(ctx context.Context, userID string) error {
	if _, err := r.conn().ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", userID); err != nil {
		log.Error().Err(err).Str("component", "LockUserCart").Msg("")
		return translate(err, "lock cart")
	}
	return nil
}

// GetCartItemsForUpdate verrouille les lignes du panier jusqu'à la fin de la transaction.
func (r *RepositoryImpl) GetCartItemsForUpdate(ctx context.Context, userID string) (data []models.CartItem, err error) {
	query := "SELECT " + cartItemColumns + ` FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1 ORDER BY ci.created_at, ci.id FOR UPDATE OF ci`

	data = []models.CartItem{}
	if err = r.conn().SelectContext(ctx, &data, query, userID); err != nil {
		log.Error().Err(err).Str("component", "GetCartItemsForUpdate").Msg("")
		return nil, translate(err, "lock cart items")
	}
	return data, nil
}

func (r *RepositoryImpl) GetCartItem(ctx context.Context, id int64) (data models.CartItem, err error) {
	query := "SELECT " + cartItemColumns + ` FROM cart_items ci
		JOIN products p ON p.id = ci.product_id WHERE ci.id = $1`
	err = r.conn().GetContext(ctx, &data, query, id)
	return data, translate(err, fmt.Sprintf("cart item %d", id))
}

func (r *RepositoryImpl) FindCartLine(ctx context.Context, userID string, productID int64, size, color string) (data models.CartItem, err error) {
	query := "SELECT " + cartItemColumns + ` FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1 AND ci.product_id = $2 AND ci.size = $3 AND ci.color = $4`
	err = r.conn().GetContext(ctx, &data, query, userID, productID, size, color)
	return data, translate(err, "cart line")
}

func (r *RepositoryImpl) CreateCartItem(ctx context.Context, item *models.CartItem) (err error) {
	nstmt, err := r.conn().PrepareNamedContext(ctx, `INSERT INTO cart_items (user_id, product_id, quantity, size, color)
		VALUES (:user_id, :product_id, :quantity, :size, :color) RETURNING id, created_at, updated_at`)
	if err != nil {
		log.Error().Err(err).Str("component", "CreateCartItem").Msg("")
		return translate(err, "prepare create cart item")
	}
	defer nstmt.Close()

	if err = nstmt.QueryRowxContext(ctx, item).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt); err != nil {
		log.Error().Err(err).Str("component", "CreateCartItem").Msg("")
		return translate(err, "create cart item")
	}
	return nil
}

func (r *RepositoryImpl) UpdateCartItemQuantity(ctx context.Context, id int64, qty int) error {
	res, err := r.conn().ExecContext(ctx,
		"UPDATE cart_items SET quantity = $1, updated_at = NOW() WHERE id = $2", qty, id)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateCartItemQuantity").Msg("")
		return translate(err, "update cart item")
	}
	return expectOne(res, fmt.Sprintf("cart item %d", id))
}

func (r *RepositoryImpl) DeleteCartItem(ctx context.Context, id int64) error {
	res, err := r.conn().ExecContext(ctx, "DELETE FROM cart_items WHERE id = $1", id)
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteCartItem").Msg("")
		return translate(err, "delete cart item")
	}
	return expectOne(res, fmt.Sprintf("cart item %d", id))
}

// DeleteCartItems supprime les lignes ids de l'utilisateur et renvoie le nombre réellement supprimé.
func (r *RepositoryImpl) DeleteCartItems(ctx context.Context, userID string, ids []int64) (int64, error) {
	res, err := r.conn().ExecContext(ctx,
		"DELETE FROM cart_items WHERE user_id = $1 AND id = ANY($2)", userID, pq.Array(ids))
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteCartItems").Msg("")
		return 0, translate(err, "delete cart items")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, translate(err, "delete cart items")
	}
	return n, nil
}
