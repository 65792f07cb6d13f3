package driven

import (
	"context"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

// ProgressStore persists sync progress, one record per source.
type ProgressStore interface {
	// GetOrCreate returns the stored progress, or a zero-valued record
	// if none exists yet. The zero record is persisted.
	GetOrCreate(ctx context.Context, sourceID domain.SourceID) (*domain.SyncProgress, error)

	// Get returns the stored progress.
	// Returns domain.ErrNotFound if the source has never been synchronised.
	Get(ctx context.Context, sourceID domain.SourceID) (*domain.SyncProgress, error)

	// Save upserts progress and stamps LastUpdated.
	Save(ctx context.Context, progress *domain.SyncProgress) error

	// Reset returns a source's progress to the zero state.
	Reset(ctx context.Context, sourceID domain.SourceID) error

	// List returns progress for every source that has a record.
	List(ctx context.Context) ([]domain.SyncProgress, error)
}
