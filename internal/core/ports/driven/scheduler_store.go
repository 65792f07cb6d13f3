package driven

import (
	"context"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

// SchedulerStore persists scheduled sync tasks and their run history so
// the scheduler resumes its timetable after a restart.
type SchedulerStore interface {
	// GetTask returns nil and no error if the task does not exist.
	GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error)

	// ListTasks returns all scheduled tasks ordered by ID.
	ListTasks(ctx context.Context) ([]domain.ScheduledTask, error)

	// SaveTask creates or updates a task keyed on its ID.
	SaveTask(ctx context.Context, task *domain.ScheduledTask) error

	// RecordResult appends one run to a task's history.
	RecordResult(ctx context.Context, result *domain.TaskResult) error

	// GetTaskHistory returns up to limit results, most recent first.
	// A non-positive limit returns the whole history.
	GetTaskHistory(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error)

	// PruneHistory keeps only the most recent keep results per task.
	PruneHistory(ctx context.Context, keep int) error
}
