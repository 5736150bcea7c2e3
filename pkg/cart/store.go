package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/tmstore/pkg/repository"
)

// Store persists cart snapshots per session. The aggregate stays a plain
// in-memory value; the store only loads and saves it around each request.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, c *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// redisCommands is the slice of the Redis repository the store needs.
type redisCommands interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RedisStore keeps carts in Redis under cart:<session> with a sliding TTL:
// both reads and writes push the expiry out. An unknown session loads as an
// empty cart.
type RedisStore struct {
	redis redisCommands
	ttl   time.Duration
}

func NewRedisStore(redis redisCommands, ttl time.Duration) *RedisStore {
	return &RedisStore{redis: redis, ttl: ttl}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	var c Cart
	err := s.redis.GetJSON(ctx, cartKey(sessionID), &c)
	if errors.Is(err, repository.ErrCacheMiss) {
		return New(), nil
	}
	if err != nil {
		return nil, err
	}
	// a browsing session keeps its cart alive even without writes
	if err := s.redis.Expire(ctx, cartKey(sessionID), s.ttl); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, c *Cart) error {
	return s.redis.SetJSON(ctx, cartKey(sessionID), c, s.ttl)
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.redis.Del(ctx, cartKey(sessionID))
}
