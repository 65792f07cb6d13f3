package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/cardsync/internal/core/domain"
	"github.com/custodia-labs/cardsync/internal/core/ports/driven"
)

// Ensure CatalogStore implements the interfaces.
var (
	_ driven.CatalogSink   = (*CatalogStore)(nil)
	_ driven.CatalogReader = (*CatalogStore)(nil)
)

// CatalogStore is an in-memory catalog keyed on UnifiedCard.Key.
type CatalogStore struct {
	mu    sync.RWMutex
	cards map[domain.SourceID]map[string]domain.UnifiedCard
}

// NewCatalogStore creates a new in-memory catalog.
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{
		cards: make(map[domain.SourceID]map[string]domain.UnifiedCard),
	}
}

// Emit upserts a card.
func (s *CatalogStore) Emit(_ context.Context, card domain.UnifiedCard) error {
	if card.Name == "" || !card.Source.Valid() {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	bySource, ok := s.cards[card.Source]
	if !ok {
		bySource = make(map[string]domain.UnifiedCard)
		s.cards[card.Source] = bySource
	}
	bySource[card.Key()] = card
	return nil
}

// DeleteAll removes every card of a source.
func (s *CatalogStore) DeleteAll(_ context.Context, sourceID domain.SourceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cards, sourceID)
	return nil
}

// Count returns the number of cards of a source.
func (s *CatalogStore) Count(_ context.Context, sourceID domain.SourceID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cards[sourceID]), nil
}

// ListCards returns up to limit cards ordered by set code, card number and name.
func (s *CatalogStore) ListCards(_ context.Context, sourceID domain.SourceID, limit int) ([]domain.UnifiedCard, error) {
	s.mu.RLock()
	out := make([]domain.UnifiedCard, 0, len(s.cards[sourceID]))
	for _, c := range s.cards[sourceID] {
		out = append(out, c)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.SetCode != b.SetCode {
			return a.SetCode < b.SetCode
		}
		if a.CardNumber != b.CardNumber {
			return a.CardNumber < b.CardNumber
		}
		return a.Name < b.Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
