package driven

import "github.com/custodia-labs/cardsync/internal/core/domain"

// ProviderRegistry resolves the provider for a source.
type ProviderRegistry interface {
	// Get returns the provider registered for a source.
	// Returns domain.ErrNotFound if the source has no provider.
	Get(sourceID domain.SourceID) (Provider, error)

	// Sources returns registered sources in canonical order.
	Sources() []domain.SourceID
}
