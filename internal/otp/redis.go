package otp

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	codePrefix  = "otp:code:"
	grantPrefix = "otp:grant:"
)

// RedisStore keeps codes in redis with a TTL so they survive restarts and
// are shared between instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Set(ctx context.Context, key, code string) error {
	return s.client.Set(ctx, codePrefix+key, code, s.ttl).Err()
}

func (s *RedisStore) Validate(ctx context.Context, key, code string) (bool, error) {
	stored, err := s.client.Get(ctx, codePrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored == code, nil
}

func (s *RedisStore) Grant(ctx context.Context, key string) error {
	return s.client.Set(ctx, grantPrefix+key, "1", s.ttl).Err()
}

func (s *RedisStore) ConsumeGrant(ctx context.Context, key string) (bool, error) {
	_, err := s.client.GetDel(ctx, grantPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
