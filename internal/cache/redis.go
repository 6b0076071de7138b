package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache regroupe les usages Redis de la boutique : pub/sub panier,
// cache des catégories et compteurs de rate limit.
type RedisCache struct {
	client *redis.Client
}

func New(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func CartChannel(userID string) string {
	return "cart:" + userID
}

// CartEvent est le message publié sur cart:<userID>.
type CartEvent struct {
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

func (r *RedisCache) PublishCartEvent(ctx context.Context, userID, event string) error {
	payload, err := json.Marshal(CartEvent{Type: event, UserID: userID, Timestamp: time.Now().UTC()})
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, CartChannel(userID), payload).Err()
}

// SubscribeCart ouvre un abonnement au canal panier ; l'appelant doit le fermer.
func (r *RedisCache) SubscribeCart(ctx context.Context, userID string) (*redis.PubSub, error) {
	pubsub := r.client.Subscribe(ctx, CartChannel(userID))
	// attendre la confirmation pour ne pas rater les premiers messages
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("abonnement %s: %w", CartChannel(userID), err)
	}
	return pubsub, nil
}

// --- Rate Limiting ---

// Allow incrémente le compteur de la fenêtre et indique si la limite est respectée.
func (r *RedisCache) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error) {
	pipe := r.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}
	return incr.Val() <= limit, incr.Val(), nil
}
