package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/custodia-labs/cardsync/internal/clock"
	"github.com/custodia-labs/cardsync/internal/core/domain"
	"github.com/custodia-labs/cardsync/internal/core/ports/driven"
	"github.com/custodia-labs/cardsync/internal/core/ports/driving"
	"github.com/custodia-labs/cardsync/internal/logger"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncOrchestrator = (*SyncOrchestrator)(nil)

// SyncOrchestrator drives resumable, page-by-page catalog synchronisation.
// At most one run per source is active at a time; different sources run
// independently.
type SyncOrchestrator struct {
	registry driven.ProviderRegistry
	progress driven.ProgressStore
	sink     driven.CatalogSink
	limiter  driven.RateLimiter
	metrics  driven.SyncMetrics

	now             func() time.Time
	sleep           func(ctx context.Context, d time.Duration) error
	newRunID        func() string
	recheckInterval time.Duration
	maxConcurrency  int
	demo            atomic.Bool

	// Status tracking
	mu          sync.RWMutex
	activeSyncs map[domain.SourceID]*domain.SyncStatus
	lastResults map[domain.SourceID]*domain.SyncResult
}

// SyncOption configures a SyncOrchestrator.
type SyncOption func(*SyncOrchestrator)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) SyncOption {
	return func(o *SyncOrchestrator) {
		o.now = now
	}
}

// WithSleeper replaces the context-aware wait used for rate-limit delays.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) SyncOption {
	return func(o *SyncOrchestrator) {
		o.sleep = sleep
	}
}

// WithDemoMode sets the initial demo mode.
func WithDemoMode(enabled bool) SyncOption {
	return func(o *SyncOrchestrator) {
		o.demo.Store(enabled)
	}
}

// WithRecheckInterval sets how long a complete source is trusted.
func WithRecheckInterval(d time.Duration) SyncOption {
	return func(o *SyncOrchestrator) {
		if d > 0 {
			o.recheckInterval = d
		}
	}
}

// WithMetrics records pipeline measurements.
func WithMetrics(m driven.SyncMetrics) SyncOption {
	return func(o *SyncOrchestrator) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithMaxConcurrency bounds how many sources SyncAll runs at once.
func WithMaxConcurrency(n int) SyncOption {
	return func(o *SyncOrchestrator) {
		if n > 0 {
			o.maxConcurrency = n
		}
	}
}

// WithRunIDs replaces the run ID generator.
func WithRunIDs(next func() string) SyncOption {
	return func(o *SyncOrchestrator) {
		o.newRunID = next
	}
}

// NewSyncOrchestrator creates a new sync orchestrator.
func NewSyncOrchestrator(
	registry driven.ProviderRegistry,
	progress driven.ProgressStore,
	sink driven.CatalogSink,
	limiter driven.RateLimiter,
	opts ...SyncOption,
) *SyncOrchestrator {
	o := &SyncOrchestrator{
		registry:        registry,
		progress:        progress,
		sink:            sink,
		limiter:         limiter,
		metrics:         noopMetrics{},
		now:             time.Now,
		sleep:           clock.Sleep,
		newRunID:        func() string { return uuid.NewString() },
		recheckInterval: domain.DefaultRecheckInterval,
		maxConcurrency:  len(domain.AllSources()),
		activeSyncs:     make(map[domain.SourceID]*domain.SyncStatus),
		lastResults:     make(map[domain.SourceID]*domain.SyncResult),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SetDemoMode toggles demo mode for subsequent runs.
func (o *SyncOrchestrator) SetDemoMode(enabled bool) {
	if o.demo.Swap(enabled) != enabled {
		logger.Info("Demo mode set to %t", enabled)
	}
}

// DemoMode reports whether demo mode is on.
func (o *SyncOrchestrator) DemoMode() bool {
	return o.demo.Load()
}

// Sync runs one synchronisation of a source and blocks until it ends.
//
// The returned result is non-nil whenever the run started, including
// aborted and cancelled runs; the error then explains why it stopped.
func (o *SyncOrchestrator) Sync(ctx context.Context, sourceID domain.SourceID, opts domain.SyncOptions) (*domain.SyncResult, error) {
	provider, err := o.registry.Get(sourceID)
	if err != nil {
		return nil, fmt.Errorf("get provider: %w", err)
	}

	r := &run{
		o:        o,
		provider: provider,
		opts:     opts,
		demo:     o.DemoMode(),
		result: &domain.SyncResult{
			RunID:     o.newRunID(),
			SourceID:  sourceID,
			StartedAt: o.now(),
		},
	}

	if err := o.acquire(sourceID, r.result.RunID); err != nil {
		return nil, err
	}
	defer o.release(sourceID, r.result)

	logger.Section("Sync " + sourceID.DisplayName())
	err = r.execute(ctx)
	r.finish(ctx, err)
	return r.result, err
}

// SyncAll runs every registered source concurrently and waits for all of them.
// Results are returned in registry order; failed runs are included.
func (o *SyncOrchestrator) SyncAll(ctx context.Context) ([]*domain.SyncResult, error) {
	sources := o.registry.Sources()
	results := make([]*domain.SyncResult, len(sources))
	errs := make([]error, len(sources))

	p := pool.New().WithMaxGoroutines(o.maxConcurrency)
	for i, id := range sources {
		p.Go(func() {
			res, err := o.Sync(ctx, id, domain.SyncOptions{})
			results[i] = res
			if err != nil {
				errs[i] = fmt.Errorf("sync %s: %w", id, err)
			}
		})
	}
	p.Wait()

	out := make([]*domain.SyncResult, 0, len(results))
	for _, res := range results {
		if res != nil {
			out = append(out, res)
		}
	}
	return out, errors.Join(errs...)
}

// Status returns the live status of a source.
func (o *SyncOrchestrator) Status(ctx context.Context, sourceID domain.SourceID) (*domain.SyncStatus, error) {
	if !sourceID.Valid() {
		return nil, fmt.Errorf("%w: unknown source %q", domain.ErrUnsupportedType, sourceID)
	}

	progress, err := o.Progress(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	o.mu.RLock()
	defer o.mu.RUnlock()

	status := &domain.SyncStatus{SourceID: sourceID, State: domain.RunStateIdle}
	if active, ok := o.activeSyncs[sourceID]; ok {
		// Return a copy to avoid race conditions
		*status = *active
	} else if progress.IsComplete {
		status.State = domain.RunStateComplete
	}
	status.Progress = progress
	if last, ok := o.lastResults[sourceID]; ok {
		c := *last
		status.LastResult = &c
	}
	return status, nil
}

// Progress returns the persisted progress of a source, or a zero record if
// the source has never been synchronised.
func (o *SyncOrchestrator) Progress(ctx context.Context, sourceID domain.SourceID) (*domain.SyncProgress, error) {
	p, err := o.progress.Get(ctx, sourceID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewSyncProgress(sourceID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return p, nil
}

// Reset deletes every card of a source and returns its progress to zero.
// Fails with domain.ErrSyncInProgress while the source is syncing.
func (o *SyncOrchestrator) Reset(ctx context.Context, sourceID domain.SourceID) error {
	if !sourceID.Valid() {
		return fmt.Errorf("%w: unknown source %q", domain.ErrUnsupportedType, sourceID)
	}
	if err := o.acquire(sourceID, ""); err != nil {
		return err
	}
	defer o.release(sourceID, nil)

	if err := o.resetSource(context.WithoutCancel(ctx), sourceID); err != nil {
		return err
	}
	logger.Info("Reset %s: catalog cleared, progress zeroed", sourceID)
	return nil
}

func (o *SyncOrchestrator) resetSource(ctx context.Context, sourceID domain.SourceID) error {
	if err := o.sink.DeleteAll(ctx, sourceID); err != nil {
		return domain.StorageError("delete catalog", err)
	}
	if err := o.progress.Reset(ctx, sourceID); err != nil {
		return domain.StorageError("reset progress", err)
	}
	return nil
}

// acquire claims the single-flight slot of a source.
func (o *SyncOrchestrator) acquire(sourceID domain.SourceID, runID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.activeSyncs[sourceID]; busy {
		return fmt.Errorf("%w: %s", domain.ErrSyncInProgress, sourceID)
	}
	o.activeSyncs[sourceID] = &domain.SyncStatus{
		SourceID: sourceID,
		State:    domain.RunStateDecide,
		RunID:    runID,
	}
	return nil
}

func (o *SyncOrchestrator) release(sourceID domain.SourceID, result *domain.SyncResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.activeSyncs, sourceID)
	if result != nil {
		c := *result
		o.lastResults[sourceID] = &c
	}
}

func (o *SyncOrchestrator) updateStatus(sourceID domain.SourceID, fn func(*domain.SyncStatus)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if s, ok := o.activeSyncs[sourceID]; ok {
		fn(s)
	}
}

type noopMetrics struct{}

func (noopMetrics) PageFetched(context.Context, domain.SourceID)             {}
func (noopMetrics) CardsEmitted(context.Context, domain.SourceID, int)       {}
func (noopMetrics) RecordRejected(context.Context, domain.SourceID, string)  {}
func (noopMetrics) RateLimited(context.Context, domain.SourceID)             {}

func (noopMetrics) RunFinished(context.Context, domain.SourceID, domain.RunOutcome, time.Duration) {}
