package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in process memory. Entries have no expiry and
// are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	awaiting map[int64]struct{}
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{awaiting: make(map[int64]struct{})}
}

// StartFeedback implements Store.
func (s *MemoryStore) StartFeedback(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.awaiting[userID] = struct{}{}
	return nil
}

// IsAwaitingFeedback implements Store.
func (s *MemoryStore) IsAwaitingFeedback(_ context.Context, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.awaiting[userID]
	return ok, nil
}

// EndFeedback implements Store.
func (s *MemoryStore) EndFeedback(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.awaiting, userID)
	return nil
}

// Len returns the number of open sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.awaiting)
}
