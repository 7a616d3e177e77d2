package repository

import (
	"context"
	"time"
)

// RedisKV is the subset of cache.RedisClient used for blob storage.
type RedisKV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisBlobStore stores each blob as a plain Redis string without expiry.
type RedisBlobStore struct {
	redis RedisKV
}

// NewRedisBlobStore creates a RedisBlobStore.
func NewRedisBlobStore(redis RedisKV) *RedisBlobStore {
	return &RedisBlobStore{redis: redis}
}

func (s *RedisBlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.redis.Get(ctx, key)
}

func (s *RedisBlobStore) Put(ctx context.Context, key string, value []byte) error {
	return s.redis.Set(ctx, key, value, 0)
}
