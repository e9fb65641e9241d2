// Package memory provides an in-memory ProgressStore.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/waypoint/pkg/domain"
)

// Store implements ports.ProgressStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.Progress
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.Progress),
	}
}

// Save persists a copy of the progress in memory.
func (s *Store) Save(ctx context.Context, sessionID string, progress *domain.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = *progress
	return nil
}

// Load retrieves the progress from memory.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	progress, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	// Copy on read so callers can't mutate the stored value.
	return &progress, nil
}

// Delete removes the progress.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns stored sessions in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	sort.Strings(sessions)
	return sessions, nil
}
