package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jay6909/qkart-backend/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTTL = 10 * time.Minute

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewRedisCache(client, testTTL)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return cache, mr, cleanup
}

func TestGet_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	email := "user@example.com"

	cart := &domain.Cart{
		Email: email,
		Items: []domain.CartItem{
			{Product: domain.Product{ID: "p1", Cost: 100}, Quantity: 2},
			{Product: domain.Product{ID: "p2", Cost: 50}, Quantity: 3},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	// Manually set data in miniredis
	cartJSON, _ := json.Marshal(cart)
	mr.Set(cartKey(email), string(cartJSON))

	result, err := cache.Get(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, email, result.Email)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "p1", result.Items[0].Product.ID)
	assert.Equal(t, 2, result.Items[0].Quantity)
}

func TestGet_Miss(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	_, err := cache.Get(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestGet_CorruptValue(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(cartKey("user@example.com"), "{not json")

	_, err := cache.Get(context.Background(), "user@example.com")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestSet_ThenGet(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	email := "user@example.com"
	cart := &domain.Cart{
		Email: email,
		Items: []domain.CartItem{
			{Product: domain.Product{ID: "p1", Cost: 100}, Quantity: 1},
		},
	}

	require.NoError(t, cache.Set(ctx, email, cart))
	assert.True(t, mr.Exists(cartKey(email)))

	result, err := cache.Get(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, email, result.Email)
	require.Len(t, result.Items, 1)
}

// The configured TTL applies, stretched by at most a fifth of jitter.
func TestSet_AppliesConfiguredTTL(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	email := "user@example.com"
	require.NoError(t, cache.Set(context.Background(), email, &domain.Cart{Email: email}))

	ttl := mr.TTL(cartKey(email))
	assert.GreaterOrEqual(t, ttl, testTTL)
	assert.LessOrEqual(t, ttl, testTTL+testTTL/5)
}

func TestDelete(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	email := "user@example.com"
	require.NoError(t, cache.Set(ctx, email, &domain.Cart{Email: email}))
	require.True(t, mr.Exists(cartKey(email)))

	require.NoError(t, cache.Delete(ctx, email))
	assert.False(t, mr.Exists(cartKey(email)))

	// Deleting an absent key is not an error.
	assert.NoError(t, cache.Delete(ctx, email))
}
