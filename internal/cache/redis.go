package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jay6909/qkart-backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

// defaultCartTTL applies when the deployment does not configure one.
const defaultCartTTL = 15 * time.Minute

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps a Redis client with the cart serialization and the
// configured expiry. A non-positive ttl selects the default.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultCartTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context, email string) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cart cache get: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("cart cache decode: %w", err)
	}

	return &cart, nil
}

func (r *RedisCache) Set(ctx context.Context, email string, cart *domain.Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("cart cache encode: %w", err)
	}

	// Jitter of up to a fifth of the TTL spreads expirations so entries
	// written in a burst do not all expire at once.
	jitter := time.Duration(rand.Int63n(int64(r.ttl/5) + 1))
	if err := r.client.Set(ctx, cartKey(email), payload, r.ttl+jitter).Err(); err != nil {
		return fmt.Errorf("cart cache set: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, email string) error {
	if err := r.client.Del(ctx, cartKey(email)).Err(); err != nil {
		return fmt.Errorf("cart cache delete: %w", err)
	}

	return nil
}

func cartKey(email string) string {
	return "qkart:cart:" + email
}
