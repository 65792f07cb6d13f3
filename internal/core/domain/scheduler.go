package domain

import (
	"strings"
	"time"
)

// ScheduledTask represents a recurring background task.
type ScheduledTask struct {
	// ID is the unique identifier for the task.
	ID string

	// Name is a human-readable name for the task.
	Name string

	// Interval defines how often the task should run.
	Interval time.Duration

	// LastRun is when the task last ran.
	LastRun time.Time

	// NextRun is when the task should run next.
	NextRun time.Time

	// LastError contains the last error message, if any.
	LastError string

	// LastSuccess is when the task last completed successfully.
	LastSuccess time.Time

	// Enabled indicates whether the task is active.
	Enabled bool
}

// TaskResult represents the outcome of a task execution.
type TaskResult struct {
	// TaskID identifies which task was run.
	TaskID string

	// RunID links the result to the sync run it triggered, if any.
	RunID string

	// StartedAt is when the task started.
	StartedAt time.Time

	// EndedAt is when the task completed.
	EndedAt time.Time

	// Success indicates whether the task completed without error.
	Success bool

	// Error contains the error message if Success is false.
	Error string

	// ItemsProcessed is the number of cards emitted by the run.
	ItemsProcessed int
}

// SchedulerConfig holds scheduler configuration.
type SchedulerConfig struct {
	// Enabled is the master switch for the scheduler.
	Enabled bool

	// TaskConfigs holds per-task configuration.
	TaskConfigs map[string]TaskConfig
}

// TaskConfig holds configuration for a single task.
type TaskConfig struct {
	// Enabled indicates whether this task should run.
	Enabled bool

	// Interval defines how often the task should run.
	Interval time.Duration
}

// GetTaskConfig returns the configuration for a specific task.
// Returns a zero TaskConfig if the task is not configured.
func (c *SchedulerConfig) GetTaskConfig(taskID string) TaskConfig {
	if c.TaskConfigs == nil {
		return TaskConfig{}
	}
	return c.TaskConfigs[taskID]
}

// DefaultSyncInterval is how often each catalog is triggered by default.
const DefaultSyncInterval = 1 * time.Hour

// DefaultSchedulerConfig returns one hourly catalog-sync task per source.
func DefaultSchedulerConfig() SchedulerConfig {
	cfg := SchedulerConfig{
		Enabled:     true,
		TaskConfigs: make(map[string]TaskConfig),
	}
	for _, id := range AllSources() {
		cfg.TaskConfigs[CatalogSyncTaskID(id)] = TaskConfig{
			Enabled:  true,
			Interval: DefaultSyncInterval,
		}
	}
	return cfg
}

// TaskIDCatalogSyncPrefix prefixes the per-source catalog sync task IDs.
const TaskIDCatalogSyncPrefix = "catalog-sync:"

// CatalogSyncTaskID returns the scheduler task ID for a source.
func CatalogSyncTaskID(sourceID SourceID) string {
	return TaskIDCatalogSyncPrefix + string(sourceID)
}

// SourceFromTaskID extracts the source from a catalog sync task ID.
func SourceFromTaskID(taskID string) (SourceID, bool) {
	rest, ok := strings.CutPrefix(taskID, TaskIDCatalogSyncPrefix)
	if !ok || rest == "" {
		return "", false
	}
	return SourceID(rest), true
}
