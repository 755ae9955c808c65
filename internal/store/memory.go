package store

import (
	"context"
	"sync"

	"mealsense/internal/models"
)

// MemoryStore keeps serialized copies so callers never share state with it.
type MemoryStore struct {
	mu    sync.RWMutex
	codec codec
	data  map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Load(_ context.Context, username string) (*models.Account, error) {
	s.mu.RLock()
	payload, ok := s.data[username]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s.codec.decode(payload, false)
}

func (s *MemoryStore) Save(_ context.Context, account *models.Account) error {
	payload, _, err := s.codec.encode(account)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[account.Username] = payload
	s.mu.Unlock()
	return nil
}
