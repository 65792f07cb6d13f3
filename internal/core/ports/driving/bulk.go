package driving

import (
	"context"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

// BulkFetcher downloads a bounded prefix of a catalog without touching
// sync progress.
type BulkFetcher interface {
	// FetchBounded fetches pages 1..maxPages and returns the parsed cards.
	FetchBounded(ctx context.Context, sourceID domain.SourceID, maxPages int) ([]domain.UnifiedCard, error)
}
