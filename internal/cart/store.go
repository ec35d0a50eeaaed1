package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quickbites/internal/apperr"
	"quickbites/internal/config"
)

const (
	// keyCart scopes a cart to its session: cart:{session_id}
	keyCart = "cart:%s"
)

// TTLCart bounds how long an idle cart survives a session reload.
var TTLCart = 24 * time.Hour

// NewRedisClient creates the Redis client used by the cart store
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Store persists carts per session in Redis. The stored cart is durable
// across session reloads but is never a source of truth for pricing.
type Store struct {
	rdb *redis.Client
}

// NewStore creates a cart store
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Load returns the session's cart; a missing key yields a fresh empty cart.
func (s *Store) Load(ctx context.Context, sessionID string) (*Cart, error) {
	data, err := s.rdb.Get(ctx, fmt.Sprintf(keyCart, sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return New(), nil
		}
		return nil, apperr.Internal("failed to load cart", err)
	}

	var c Cart
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, apperr.Internal("failed to decode cart", err)
	}
	return &c, nil
}

// Save writes the session's cart back with a refreshed TTL
func (s *Store) Save(ctx context.Context, sessionID string, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return apperr.Internal("failed to encode cart", err)
	}
	if err := s.rdb.Set(ctx, fmt.Sprintf(keyCart, sessionID), data, TTLCart).Err(); err != nil {
		return apperr.Internal("failed to save cart", err)
	}
	return nil
}

// Delete drops the session's cart
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, fmt.Sprintf(keyCart, sessionID)).Err(); err != nil {
		return apperr.Internal("failed to delete cart", err)
	}
	return nil
}

// Ping tests the Redis connection
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
