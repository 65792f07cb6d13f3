package driven

import (
	"context"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

// CatalogSink receives normalised cards.
type CatalogSink interface {
	// Emit upserts a card keyed on source, set code, card number and name.
	Emit(ctx context.Context, card domain.UnifiedCard) error

	// DeleteAll removes every card of a source.
	DeleteAll(ctx context.Context, sourceID domain.SourceID) error

	// Count returns the number of stored cards for a source.
	Count(ctx context.Context, sourceID domain.SourceID) (int, error)
}

// CatalogReader lists stored cards.
type CatalogReader interface {
	// ListCards returns up to limit cards of a source ordered by set and number.
	// A non-positive limit returns every card.
	ListCards(ctx context.Context, sourceID domain.SourceID, limit int) ([]domain.UnifiedCard, error)
}
