package driving

import (
	"context"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

// Scheduler periodically triggers catalog syncs.
type Scheduler interface {
	// Start begins running scheduled tasks.
	// Blocks until context is cancelled or an error occurs.
	Start(ctx context.Context) error

	// Stop gracefully stops all running tasks.
	Stop() error

	// Tasks returns the current state of every scheduled task.
	Tasks(ctx context.Context) ([]domain.ScheduledTask, error)

	// History returns recent sync runs of a source, most recent first.
	History(ctx context.Context, sourceID domain.SourceID, limit int) ([]domain.TaskResult, error)
}
