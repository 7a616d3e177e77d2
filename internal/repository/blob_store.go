package repository

import (
	"context"
	"sync"
)

// BlobStore is a durable key/value medium holding whole serialized blobs.
// Put fully overwrites; there are no partial or merge writes.
type BlobStore interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, key string, value []byte) error
}

// MemoryBlobStore keeps blobs in process memory. It is the default backend
// for local runs and the substitute for real persistence in tests.
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryBlobStore creates an empty MemoryBlobStore.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string][]byte)}
}

// Get returns a copy of the blob stored under key.
func (s *MemoryBlobStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put replaces the blob stored under key.
func (s *MemoryBlobStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[key] = append([]byte(nil), value...)
	return nil
}
