package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/cardsync/internal/core/domain"
	"github.com/custodia-labs/cardsync/internal/core/ports/driven"
	"github.com/custodia-labs/cardsync/internal/core/ports/driving"
	"github.com/custodia-labs/cardsync/internal/logger"
)

// Ensure BulkFetcher implements the interface.
var _ driving.BulkFetcher = (*BulkFetcher)(nil)

// DefaultBulkInterval is the flat pause between bulk page requests.
const DefaultBulkInterval = 200 * time.Millisecond

// BulkFetcher pulls a bounded prefix of a catalog in one call. Unlike the
// orchestrator it keeps no progress, so every call starts at page 1.
type BulkFetcher struct {
	registry driven.ProviderRegistry
	interval time.Duration
	allowed  []domain.SourceID
}

// BulkOption configures a BulkFetcher.
type BulkOption func(*BulkFetcher)

// WithBulkInterval sets the pause between requests. Zero disables pacing.
func WithBulkInterval(d time.Duration) BulkOption {
	return func(b *BulkFetcher) {
		b.interval = d
	}
}

// WithBulkSources replaces the set of sources allowed for bulk fetching.
func WithBulkSources(ids ...domain.SourceID) BulkOption {
	return func(b *BulkFetcher) {
		b.allowed = ids
	}
}

// NewBulkFetcher creates a bulk fetcher. Only One Piece is allowed by default.
func NewBulkFetcher(registry driven.ProviderRegistry, opts ...BulkOption) *BulkFetcher {
	b := &BulkFetcher{
		registry: registry,
		interval: DefaultBulkInterval,
		allowed:  []domain.SourceID{domain.SourceOnePiece},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FetchBounded fetches pages 1..maxPages and returns every parsed card.
// It stops early on the first empty page or when the provider is exhausted.
// Malformed records are skipped; any fetch error ends the call.
func (b *BulkFetcher) FetchBounded(ctx context.Context, sourceID domain.SourceID, maxPages int) ([]domain.UnifiedCard, error) {
	if maxPages <= 0 {
		return nil, fmt.Errorf("%w: max pages must be positive, got %d", domain.ErrInvalidInput, maxPages)
	}
	if !slices.Contains(b.allowed, sourceID) {
		return nil, fmt.Errorf("%w: bulk fetch not available for %s", domain.ErrUnsupportedType, sourceID)
	}

	provider, err := b.registry.Get(sourceID)
	if err != nil {
		return nil, fmt.Errorf("get provider: %w", err)
	}

	limit := rate.Inf
	if b.interval > 0 {
		limit = rate.Every(b.interval)
	}
	limiter := rate.NewLimiter(limit, 1)

	cursor := provider.InitialCursor(domain.NewSyncProgress(sourceID), domain.SyncOptions{PageCeiling: maxPages})
	var cards []domain.UnifiedCard
	skipped := 0

	for cursor.Page <= maxPages {
		if err := limiter.Wait(ctx); err != nil {
			return cards, err
		}

		page, err := provider.FetchPage(ctx, cursor)
		if err != nil {
			return cards, fmt.Errorf("fetch page %d: %w", cursor.Page, err)
		}
		if page.Empty() {
			logger.Debug("bulk %s: page %d empty, stopping", sourceID, cursor.Page)
			break
		}

		for _, rec := range page.Records {
			card, err := provider.ParseRecord(rec)
			if err != nil {
				skipped++
				logger.Warn("bulk %s page %d: %v", sourceID, cursor.Page, err)
				continue
			}
			cards = append(cards, card)
		}

		if provider.IsExhausted(page.Pagination, cursor) {
			break
		}
		cursor = provider.Advance(cursor, page.Pagination)
	}

	logger.Info("bulk %s: %d cards from up to %d pages (%d skipped)", sourceID, len(cards), maxPages, skipped)
	return cards, nil
}
