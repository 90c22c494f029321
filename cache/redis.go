package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the key holding the mapping when none is configured.
const DefaultRedisKey = "salin:memory"

// RedisStore keeps the whole mapping as one JSON value under one key,
// rewritten on every save.
type RedisStore struct {
	client  *redis.Client
	key     string
	timeout time.Duration
}

// RedisConfig holds configuration for the Redis store.
type RedisConfig struct {
	URL     string        // Redis connection URL (e.g., "redis://localhost:6379")
	Key     string        // Key holding the mapping (default: "salin:memory")
	Timeout time.Duration // Per-command timeout (default: 5s)
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	s := NewRedisStoreFromClient(redis.NewClient(opts), cfg.Key)
	if cfg.Timeout > 0 {
		s.timeout = cfg.Timeout
	}

	if err := s.Ping(); err != nil {
		s.client.Close()
		return nil, err
	}

	return s, nil
}

// NewRedisStoreFromClient creates a RedisStore from an existing Redis client.
func NewRedisStoreFromClient(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{
		client:  client,
		key:     key,
		timeout: 5 * time.Second,
	}
}

// Load implements Store.
func (s *RedisStore) Load() (map[string]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	val, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.key, err)
	}

	return decodeMapping(val, "redis:"+s.key)
}

// Save implements Store.
func (s *RedisStore) Save(entries map[string]string) error {
	data, err := encodeMapping(entries)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	return s.client.Set(ctx, s.key, string(data), 0).Err()
}

// Ping tests the Redis connection.
func (s *RedisStore) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Verify RedisStore implements Store
var _ Store = (*RedisStore)(nil)
