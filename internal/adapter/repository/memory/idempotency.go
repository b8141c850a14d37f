package memory

import (
	"context"
	"sync"
	"time"
)

// IdempotencyStore implements usecase.IdempotencyStore within one process.
type IdempotencyStore struct {
	mu    sync.Mutex
	items map[string]idempotencyItem
	now   func() time.Time
}

type idempotencyItem struct {
	value     []byte
	expiresAt time.Time
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{items: make(map[string]idempotencyItem), now: time.Now}
}

// processingMarker is stored when CheckAndSet is called without a response.
var processingMarker = []byte("processing")

// CheckAndSet stores response under key unless a live value exists.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if item, ok := s.items[key]; ok && now.Before(item.expiresAt) {
		return true, item.value, nil
	}

	if response == nil {
		response = processingMarker
	}
	s.items[key] = idempotencyItem{value: response, expiresAt: now.Add(ttl)}
	return false, nil, nil
}

// Update replaces the value under key.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = idempotencyItem{value: response, expiresAt: s.now().Add(ttl)}
	return nil
}

// Release removes key.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}
