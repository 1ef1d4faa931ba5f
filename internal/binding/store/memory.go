package store

import (
	"context"
	"sync"
	"time"

	"secureeye/internal/binding"
	"secureeye/pkg/platform/sentinel"
)

// InMemory implements binding.Store with a mutex-guarded map. Suitable for
// single-instance deployments and as the concurrency-contract test vehicle.
// The critical section is a map assignment, never an external call, so one
// process-wide RWMutex does not serialize unrelated devices in any way that
// matters.
type InMemory struct {
	mu       sync.RWMutex
	bindings map[string]binding.Binding
}

// NewInMemory creates an empty in-memory binding store.
func NewInMemory() *InMemory {
	return &InMemory{
		bindings: make(map[string]binding.Binding),
	}
}

// Put upserts the binding. Last writer wins.
func (s *InMemory) Put(ctx context.Context, deviceID, recipientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings[deviceID] = binding.Binding{
		DeviceID:    deviceID,
		RecipientID: recipientID,
		UpdatedAt:   time.Now(),
	}
	return nil
}

// Get returns the bound recipient or sentinel.ErrNotFound.
func (s *InMemory) Get(ctx context.Context, deviceID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bindings[deviceID]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return b.RecipientID, nil
}

// Len reports the number of bindings. Used by tests and the health endpoint.
func (s *InMemory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bindings)
}
