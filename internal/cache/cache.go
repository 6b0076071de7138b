package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"storefront_back_end/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	CategoriesKey      = "categories:all"
	CategoriesCacheTTL = 5 * time.Minute
)

// GetCategories renvoie false sur absence ou erreur : le service relira la base.
func (r *RedisCache) GetCategories(ctx context.Context) ([]models.Category, bool) {
	data, err := r.client.Get(ctx, CategoriesKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Ctx(ctx).Warn().Err(err).Str("key", CategoriesKey).Msg("⚠️ Lecture cache")
		}
		return nil, false
	}

	var categories []models.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", CategoriesKey).Msg("⚠️ Cache corrompu")
		return nil, false
	}
	return categories, true
}

func (r *RedisCache) SetCategories(ctx context.Context, categories []models.Category) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, CategoriesKey, data, CategoriesCacheTTL).Err()
}

// InvalidateCategories : les compteurs de produits changent à chaque écriture catalogue ou commande.
func (r *RedisCache) InvalidateCategories(ctx context.Context) error {
	return r.client.Del(ctx, CategoriesKey).Err()
}
