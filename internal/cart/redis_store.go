package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	pkgredis "github.com/snapformstudio/storefront-backend/pkg/redis"
)

type redisCommands interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartSessionKey(sessionKey string) string
}

// RedisStore persists cart records as JSON under namespaced session keys
// with a TTL, so abandoned sessions age out on their own.
type RedisStore struct {
	client redisCommands
	ttl    time.Duration
}

func NewRedisStore(client redisCommands, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (r *RedisStore) Load(ctx context.Context, sessionKey string) (*Record, error) {
	raw, err := r.client.Get(ctx, r.client.CartSessionKey(sessionKey))
	if errors.Is(err, pkgredis.ErrKeyMissing) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record Record
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *RedisStore) Save(ctx context.Context, sessionKey string, record *Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.client.CartSessionKey(sessionKey), string(payload), r.ttl)
}

func (r *RedisStore) Delete(ctx context.Context, sessionKey string) error {
	return r.client.Del(ctx, r.client.CartSessionKey(sessionKey))
}
