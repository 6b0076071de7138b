package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"storefront_back_end/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client), mr
}

func TestCategoriesCache(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, ok := c.GetCategories(ctx)
	assert.False(t, ok)

	require.NoError(t, c.SetCategories(ctx, []models.Category{{ID: 1, Name: "Robes", Slug: "robes", ProductsCount: 3}}))
	assert.Equal(t, CategoriesCacheTTL, mr.TTL(CategoriesKey))

	got, ok := c.GetCategories(ctx)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].ProductsCount)

	require.NoError(t, c.InvalidateCategories(ctx))
	_, ok = c.GetCategories(ctx)
	assert.False(t, ok)

	require.NoError(t, mr.Set(CategoriesKey, "{pas du json"))
	_, ok = c.GetCategories(ctx)
	assert.False(t, ok)
}

func TestCartEvents(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	pubsub, err := c.SubscribeCart(ctx, "u1")
	require.NoError(t, err)
	defer pubsub.Close()

	require.NoError(t, c.PublishCartEvent(ctx, "u1", "cleared"))

	select {
	case msg := <-pubsub.Channel():
		assert.Equal(t, "cart:u1", msg.Channel)
		var event CartEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		assert.Equal(t, "cleared", event.Type)
		assert.Equal(t, "u1", event.UserID)
	case <-time.After(2 * time.Second):
		t.Fatal("aucun message reçu")
	}
}

func TestAllow(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		ok, count, err := c.Allow(ctx, "cart_add:u1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.EqualValues(t, i, count)
	}

	ok, _, err := c.Allow(ctx, "cart_add:u1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(time.Minute + time.Second)
	ok, count, err := c.Allow(ctx, "cart_add:u1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 1, count)
}
