package cache

import (
	"context"
	"time"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/ports"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

const revokedKeyPrefix = "revoked_token:"

// RedisClient is the subset of *redis.Client the token store uses.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisTokenStore keeps revoked token ids in Redis until the token would
// have expired on its own.
type RedisTokenStore struct {
	client RedisClient
	cb     *gobreaker.CircuitBreaker
}

var _ ports.TokenStore = (*RedisTokenStore)(nil)

func NewRedisTokenStore(client RedisClient, cb *gobreaker.CircuitBreaker) *RedisTokenStore {
	return &RedisTokenStore{client: client, cb: cb}
}

func (s *RedisTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	// Already expired, nothing to remember.
	if ttl <= 0 {
		return nil
	}
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err()
	})
	return err
}

func (s *RedisTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		return s.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	})
	if err != nil {
		return false, err
	}
	return res.(int64) > 0, nil
}

func (s *RedisTokenStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
