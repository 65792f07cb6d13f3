package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/cardsync/internal/core/domain"
	"github.com/custodia-labs/cardsync/internal/core/ports/driven"
)

// Ensure ProgressStore implements the interface.
var _ driven.ProgressStore = (*ProgressStore)(nil)

// ProgressStore is an in-memory implementation of driven.ProgressStore.
type ProgressStore struct {
	mu      sync.RWMutex
	records map[domain.SourceID]domain.SyncProgress
	now     func() time.Time
}

// NewProgressStore creates a new in-memory progress store.
func NewProgressStore() *ProgressStore {
	return &ProgressStore{
		records: make(map[domain.SourceID]domain.SyncProgress),
		now:     time.Now,
	}
}

// GetOrCreate returns stored progress, creating a zero record if absent.
func (s *ProgressStore) GetOrCreate(_ context.Context, sourceID domain.SourceID) (*domain.SyncProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.records[sourceID]
	if !ok {
		p = *domain.NewSyncProgress(sourceID)
		p.LastUpdated = s.now()
		s.records[sourceID] = p
	}
	return p.Clone(), nil
}

// Get retrieves progress for a source.
func (s *ProgressStore) Get(_ context.Context, sourceID domain.SourceID) (*domain.SyncProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.records[sourceID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}

// Save stores or updates progress.
func (s *ProgressStore) Save(_ context.Context, progress *domain.SyncProgress) error {
	if progress == nil || !progress.SourceID.Valid() {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := progress.Clone()
	p.LastUpdated = s.now()
	progress.LastUpdated = p.LastUpdated
	s.records[p.SourceID] = *p
	return nil
}

// Reset returns progress for a source to the zero state.
func (s *ProgressStore) Reset(_ context.Context, sourceID domain.SourceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *domain.NewSyncProgress(sourceID)
	p.LastUpdated = s.now()
	s.records[sourceID] = p
	return nil
}

// List returns every stored record ordered by source ID.
func (s *ProgressStore) List(_ context.Context) ([]domain.SyncProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SyncProgress, 0, len(s.records))
	for _, p := range s.records {
		out = append(out, *p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SourceID < out[j].SourceID })
	return out, nil
}
