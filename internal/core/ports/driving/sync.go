package driving

import (
	"context"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

// SyncOrchestrator coordinates catalog synchronisation from sources.
type SyncOrchestrator interface {
	// Sync runs one sync for a source and blocks until it ends.
	// Returns domain.ErrSyncInProgress if the source is already syncing.
	Sync(ctx context.Context, sourceID domain.SourceID, opts domain.SyncOptions) (*domain.SyncResult, error)

	// SyncAll syncs every registered source concurrently.
	SyncAll(ctx context.Context) ([]*domain.SyncResult, error)

	// Status returns the live status of a source.
	Status(ctx context.Context, sourceID domain.SourceID) (*domain.SyncStatus, error)

	// Progress returns the persisted progress of a source.
	Progress(ctx context.Context, sourceID domain.SourceID) (*domain.SyncProgress, error)

	// Reset deletes a source's cards and progress, forcing a full re-import.
	Reset(ctx context.Context, sourceID domain.SourceID) error

	// SetDemoMode toggles demo mode for subsequent runs.
	SetDemoMode(enabled bool)

	// DemoMode reports whether demo mode is on.
	DemoMode() bool
}
