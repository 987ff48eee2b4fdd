package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Codec converts values to and from JSON for external stores.
type Codec[V any] interface {
	Encode(v V) ([]byte, error)
	Decode(b []byte) (V, error)
}

// redisEnvelope carries the fetch time alongside the encoded value so the
// reuse window stays under Cache control rather than Redis expiry.
type redisEnvelope struct {
	Timestamp time.Time       `json:"ts"`
	Value     json.RawMessage `json:"value"`
}

// RedisStore keeps entries in Redis so they survive restarts and can be
// shared between instances.
type RedisStore[V any] struct {
	client    *redis.Client
	codec     Codec[V]
	prefix    string
	retention time.Duration
}

// NewRedisStore creates a store under the given key prefix. Keys expire
// from Redis after retention; a non-positive retention keeps them forever.
func NewRedisStore[V any](client *redis.Client, codec Codec[V], prefix string, retention time.Duration) *RedisStore[V] {
	return &RedisStore[V]{
		client:    client,
		codec:     codec,
		prefix:    prefix,
		retention: retention,
	}
}

// Ping checks the connection to the Redis server.
func (s *RedisStore[V]) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore[V]) key(key string) string {
	return s.prefix + key
}

// Load returns the entry for key or ErrNotFound.
func (s *RedisStore[V]) Load(ctx context.Context, key string) (Entry[V], error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry[V]{}, ErrNotFound
	}
	if err != nil {
		return Entry[V]{}, fmt.Errorf("redis get %s: %w", key, err)
	}

	var env redisEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Entry[V]{}, fmt.Errorf("decode envelope %s: %w", key, err)
	}
	v, err := s.codec.Decode(env.Value)
	if err != nil {
		return Entry[V]{}, fmt.Errorf("decode value %s: %w", key, err)
	}
	return Entry[V]{Key: key, Value: v, Timestamp: env.Timestamp}, nil
}

// Save writes e, replacing any previous value.
func (s *RedisStore[V]) Save(ctx context.Context, e Entry[V]) error {
	value, err := s.codec.Encode(e.Value)
	if err != nil {
		return fmt.Errorf("encode value %s: %w", e.Key, err)
	}
	raw, err := json.Marshal(redisEnvelope{Timestamp: e.Timestamp, Value: value})
	if err != nil {
		return fmt.Errorf("encode envelope %s: %w", e.Key, err)
	}

	expiry := s.retention
	if expiry < 0 {
		expiry = 0
	}
	if err := s.client.Set(ctx, s.key(e.Key), raw, expiry).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", e.Key, err)
	}
	return nil
}
