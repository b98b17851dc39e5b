package registry

import (
	"context"
	"sync"
)

type memoryEntry struct {
	mu       sync.Mutex
	identity Identity
}

// MemoryStore is an in-process [Store].
type MemoryStore struct {
	mu         sync.RWMutex
	byUsername map[string]*memoryEntry
	byKey      map[PublicKey]*memoryEntry
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byUsername: make(map[string]*memoryEntry),
		byKey:      make(map[PublicKey]*memoryEntry),
	}
}

func (s *MemoryStore) Register(_ context.Context, id *Identity) error {
	if err := id.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byUsername[id.Username]; ok {
		return ErrUsernameTaken
	}
	if _, ok := s.byKey[id.PublicKey]; ok {
		return ErrPublicKeyTaken
	}

	e := &memoryEntry{identity: *id.Clone()}
	s.byUsername[id.Username] = e
	s.byKey[id.PublicKey] = e
	return nil
}

func (s *MemoryStore) ByUsername(_ context.Context, username string) (*Identity, error) {
	s.mu.RLock()
	e, ok := s.byUsername[username]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return e.snapshot(), nil
}

func (s *MemoryStore) ByPublicKey(_ context.Context, key PublicKey) (*Identity, error) {
	s.mu.RLock()
	e, ok := s.byKey[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return e.snapshot(), nil
}

func (s *MemoryStore) Consume(_ context.Context, key PublicKey, index int64) error {
	s.mu.RLock()
	e, ok := s.byKey[key]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if index <= e.identity.LastConsumed {
		return ErrAlreadyConsumed
	}
	e.identity.LastConsumed = index
	return nil
}

func (s *MemoryStore) Count(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.byKey)), nil
}

func (e *memoryEntry) snapshot() *Identity {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.identity.Clone()
}
