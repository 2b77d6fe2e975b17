package checklist

import (
	"context"
	"sync"

	"proposal-engine/internal/models"
)

// Key identifies one section's state within one session.
type Key struct {
	SessionID string
	SectionID string
}

// UpdateFunc receives the stored progress (nil when none exists) and returns
// the progress to persist. Returning an error aborts the write.
type UpdateFunc func(current *models.SectionProgress) (*models.SectionProgress, error)

// Store persists section progress. Update must be atomic per key.
type Store interface {
	Load(ctx context.Context, key Key) (*models.SectionProgress, error)
	Update(ctx context.Context, key Key, fn UpdateFunc) (*models.SectionProgress, error)
}

// MemoryStore keeps progress in process memory. Values are deep-copied on the
// way in and out so callers never alias stored slices.
type MemoryStore struct {
	mu    sync.Mutex
	state map[Key]*models.SectionProgress
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: make(map[Key]*models.SectionProgress)}
}

func (s *MemoryStore) Load(_ context.Context, key Key) (*models.SectionProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state[key].Clone(), nil
}

func (s *MemoryStore) Update(_ context.Context, key Key, fn UpdateFunc) (*models.SectionProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.state[key].Clone())
	if err != nil {
		return nil, err
	}
	s.state[key] = next.Clone()
	return next, nil
}
