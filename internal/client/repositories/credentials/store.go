// Package credentials keeps the single bearer credential of the signed-in
// user across process restarts.
package credentials

import (
	"context"
	"errors"
	"sync"
)

// ErrSecretRequired is returned by Load when the stored credential was sealed
// but the store has no secret to open it with.
var ErrSecretRequired = errors.New("stored credential is sealed; a credential secret is required")

// Store is a durable single slot. Load returns "" when nothing is stored.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, credential string) error
	Clear(ctx context.Context) error
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu         sync.RWMutex
	credential string
}

func NewMemoryStore(initial string) *MemoryStore {
	return &MemoryStore{credential: initial}
}

func (s *MemoryStore) Load(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential, nil
}

func (s *MemoryStore) Save(_ context.Context, credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = credential
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = ""
	return nil
}
