package tokenstore

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store. Expired tokens are dropped on read.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memEntry
	now   func() time.Time
}

type memEntry struct {
	token     string
	expiresAt time.Time // zero means no expiration
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memEntry),
		now:   time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	entry, ok := s.items[key]
	s.mu.RUnlock()

	if !ok {
		return "", false, nil
	}
	if s.expired(entry) {
		s.evict(key)
		return "", false, nil
	}
	return entry.token, true, nil
}

func (s *MemoryStore) expired(e memEntry) bool {
	return !e.expiresAt.IsZero() && s.now().After(e.expiresAt)
}

// evict deletes key only if the entry stored now is still expired, so a Set
// racing with Get is kept.
func (s *MemoryStore) evict(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.items[key]; ok && s.expired(entry) {
		delete(s.items, key)
	}
}

func (s *MemoryStore) Set(_ context.Context, key, token string, ttl time.Duration) error {
	entry := memEntry{token: token}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.items[key] = entry
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of entries, including expired ones not yet read.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

var _ Store = (*MemoryStore)(nil)
