package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/cardsync/internal/core/domain"
	"github.com/custodia-labs/cardsync/internal/core/ports/driven"
	"github.com/custodia-labs/cardsync/internal/core/ports/driving"
	"github.com/custodia-labs/cardsync/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// historyRetention is how many results are kept per task.
const historyRetention = 100

// Scheduler triggers one catalog sync task per source on its interval.
// Task state and history survive restarts through the scheduler store.
type Scheduler struct {
	config   domain.SchedulerConfig
	store    driven.SchedulerStore
	syncOrch driving.SyncOrchestrator
	now      func() time.Time
	tick     time.Duration

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	inFlight map[string]bool
	wg       sync.WaitGroup
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithSchedulerClock replaces the wall clock.
func WithSchedulerClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		s.now = now
	}
}

// WithTickInterval sets how often due tasks are checked.
func WithTickInterval(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.tick = d
		}
	}
}

// NewScheduler creates a scheduler with configuration.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	syncOrch driving.SyncOrchestrator,
	opts ...SchedulerOption,
) *Scheduler {
	s := &Scheduler{
		config:   config,
		store:    store,
		syncOrch: syncOrch,
		now:      time.Now,
		tick:     time.Minute,
		inFlight: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the scheduler loop. This method blocks until Stop is called
// or ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	if !s.config.Enabled {
		logger.Info("Scheduler disabled")
	} else if err := s.initialiseTasks(ctx); err != nil {
		logger.Warn("scheduler: failed to initialise tasks: %v", err)
	}

	return s.run(ctx)
}

// Stop gracefully shuts down the scheduler and waits for running tasks.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// Tasks returns every stored task.
func (s *Scheduler) Tasks(ctx context.Context) ([]domain.ScheduledTask, error) {
	return s.store.ListTasks(ctx)
}

// History returns up to limit recorded runs of a source's sync task,
// most recent first.
func (s *Scheduler) History(ctx context.Context, sourceID domain.SourceID, limit int) ([]domain.TaskResult, error) {
	if !sourceID.Valid() {
		return nil, domain.ErrUnsupportedType
	}
	return s.store.GetTaskHistory(ctx, domain.CatalogSyncTaskID(sourceID), limit)
}

// initialiseTasks ensures a task exists for every configured source.
func (s *Scheduler) initialiseTasks(ctx context.Context) error {
	var errs []error
	for _, id := range domain.AllSources() {
		taskID := domain.CatalogSyncTaskID(id)
		taskCfg := s.config.GetTaskConfig(taskID)
		if taskCfg.Interval <= 0 {
			continue
		}
		if err := s.ensureTask(ctx, taskID, id.DisplayName()+" Sync", taskCfg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ensureTask creates or updates a task in the store.
func (s *Scheduler) ensureTask(ctx context.Context, id, name string, cfg domain.TaskConfig) error {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}

	now := s.now()
	if task == nil {
		// New tasks run on the first check
		task = &domain.ScheduledTask{
			ID:       id,
			Name:     name,
			Interval: cfg.Interval,
			Enabled:  cfg.Enabled,
			NextRun:  now,
		}
	} else {
		if task.Interval != cfg.Interval {
			task.Interval = cfg.Interval
			task.NextRun = now.Add(cfg.Interval)
		}
		task.Enabled = cfg.Enabled
	}

	return s.store.SaveTask(ctx, task)
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context) error {
	if s.config.Enabled {
		s.checkAndRunDueTasks(ctx)
	}

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			if s.config.Enabled {
				s.checkAndRunDueTasks(ctx)
			}
		}
	}
}

// checkAndRunDueTasks starts every enabled task whose next run has passed.
func (s *Scheduler) checkAndRunDueTasks(ctx context.Context) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		logger.Warn("scheduler: failed to list tasks: %v", err)
		return
	}

	now := s.now()
	for i := range tasks {
		task := &tasks[i]
		if !task.Enabled {
			continue
		}
		if task.NextRun.IsZero() || !task.NextRun.After(now) {
			s.runTask(ctx, task)
		}
	}
}

// runTask executes a single task in the background. A task that is still
// running from a previous tick is not started again.
func (s *Scheduler) runTask(ctx context.Context, task *domain.ScheduledTask) {
	sourceID, ok := domain.SourceFromTaskID(task.ID)
	if !ok || !sourceID.Valid() {
		logger.Warn("scheduler: unknown task ID: %s", task.ID)
		return
	}

	s.mu.Lock()
	if s.inFlight[task.ID] {
		s.mu.Unlock()
		return
	}
	s.inFlight[task.ID] = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.inFlight, task.ID)
			s.mu.Unlock()
		}()

		result := &domain.TaskResult{
			TaskID:    task.ID,
			StartedAt: s.now(),
		}

		res, err := s.runCatalogSync(ctx, sourceID)
		if errors.Is(err, domain.ErrSyncInProgress) {
			logger.Debug("scheduler: %s already syncing, skipping", sourceID)
			return
		}
		if res != nil {
			result.RunID = res.RunID
			result.ItemsProcessed = res.CardsEmitted
		}

		result.EndedAt = s.now()
		if err != nil {
			result.Success = false
			result.Error = err.Error()
			task.LastError = err.Error()
		} else {
			result.Success = true
			task.LastError = ""
			task.LastSuccess = result.EndedAt
		}

		task.LastRun = result.StartedAt
		task.NextRun = result.EndedAt.Add(task.Interval)

		// The run's own context may be gone; still record what happened.
		store := context.WithoutCancel(ctx)
		if saveErr := s.store.SaveTask(store, task); saveErr != nil {
			logger.Warn("scheduler: failed to save task %s: %v", task.ID, saveErr)
		}
		if recordErr := s.store.RecordResult(store, result); recordErr != nil {
			logger.Warn("scheduler: failed to record result for %s: %v", task.ID, recordErr)
		}
		if pruneErr := s.store.PruneHistory(store, historyRetention); pruneErr != nil {
			logger.Warn("scheduler: failed to prune history: %v", pruneErr)
		}
	}()
}

// runCatalogSync triggers one sync run for a source.
func (s *Scheduler) runCatalogSync(ctx context.Context, sourceID domain.SourceID) (*domain.SyncResult, error) {
	if s.syncOrch == nil {
		return nil, nil
	}
	return s.syncOrch.Sync(ctx, sourceID, domain.SyncOptions{})
}
