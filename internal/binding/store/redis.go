package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"secureeye/pkg/platform/sentinel"
)

const bindingKeyPrefix = "binding:device:"

// RedisStore is a Redis-backed binding store for deployments where several
// instances share binding state. SET is atomic per key, which gives the
// per-device last-write-wins contract directly.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed binding store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Put upserts the binding. Bindings have no TTL; absence of an unregister
// path is a known product gap.
func (s *RedisStore) Put(ctx context.Context, deviceID, recipientID string) error {
	if err := s.client.Set(ctx, bindingKeyPrefix+deviceID, recipientID, 0).Err(); err != nil {
		return fmt.Errorf("put binding %s: %v: %w", deviceID, err, sentinel.ErrUnavailable)
	}
	return nil
}

// Get returns the bound recipient or sentinel.ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, deviceID string) (string, error) {
	recipientID, err := s.client.Get(ctx, bindingKeyPrefix+deviceID).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get binding %s: %v: %w", deviceID, err, sentinel.ErrUnavailable)
	}
	return recipientID, nil
}
