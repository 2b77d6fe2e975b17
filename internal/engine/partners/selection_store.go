package partners

import (
	"context"
	"sync"

	"proposal-engine/internal/models"
)

// SelectionStore keeps the current selection per (rfpId, category); the last save wins.
type SelectionStore interface {
	Save(ctx context.Context, sel models.SubcontractorSelection) error
	// Current returns nil without error when nothing has been selected yet.
	Current(ctx context.Context, rfpID, category string) (*models.SubcontractorSelection, error)
}

type selectionKey struct {
	rfpID    string
	category string
}

type MemorySelectionStore struct {
	mu   sync.RWMutex
	data map[selectionKey]models.SubcontractorSelection
}

func NewMemorySelectionStore() *MemorySelectionStore {
	return &MemorySelectionStore{data: make(map[selectionKey]models.SubcontractorSelection)}
}

func (s *MemorySelectionStore) Save(_ context.Context, sel models.SubcontractorSelection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[selectionKey{sel.RFPID, sel.Category}] = sel
	return nil
}

func (s *MemorySelectionStore) Current(_ context.Context, rfpID, category string) (*models.SubcontractorSelection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sel, ok := s.data[selectionKey{rfpID, category}]
	if !ok {
		return nil, nil
	}
	return &sel, nil
}
