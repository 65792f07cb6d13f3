package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/cardsync/internal/core/domain"
	"github.com/custodia-labs/cardsync/internal/core/ports/driven"
	"github.com/custodia-labs/cardsync/internal/logger"
)

// run is one invocation of the state machine for a single source.
type run struct {
	o        *SyncOrchestrator
	provider driven.Provider
	opts     domain.SyncOptions
	demo     bool
	result   *domain.SyncResult
	progress *domain.SyncProgress
}

func (r *run) sourceID() domain.SourceID {
	return r.result.SourceID
}

// execute runs DECIDE and then RUNNING until a terminal state.
// Persistence uses a context detached from ctx so a page that was fetched
// is always fully recorded even if the caller cancels meanwhile.
func (r *run) execute(ctx context.Context) error {
	store := context.WithoutCancel(ctx)
	id := r.sourceID()

	// DECIDE
	if r.demo {
		logger.Info("Demo mode: clearing %s catalog and progress", id)
		if err := r.o.resetSource(store, id); err != nil {
			return r.abort(err)
		}
	}

	progress, err := r.o.progress.GetOrCreate(store, id)
	if err != nil {
		return r.abort(domain.StorageError("load progress", err))
	}
	r.progress = progress

	if progress.IsComplete {
		if !progress.NeedsRecheck(r.o.now(), r.o.recheckInterval) {
			logger.Info("%s is complete and was checked at %s, skipping", id, progress.LastCheckDate.Format("2006-01-02 15:04:05"))
			r.result.Outcome = domain.OutcomeSkipped
			return nil
		}
		r.result.Recheck = true
		logger.Info("%s is complete but due for a re-check (last processed page %d)", id, progress.LastProcessedPage)
	}

	cursor := r.cursor()
	r.result.StartPage = cursor.Page
	r.o.updateStatus(id, func(s *domain.SyncStatus) {
		s.State = domain.RunStateRunning
		s.CurrentPage = cursor.Page
	})

	// RUNNING
	recheck := r.result.Recheck
	for {
		if err := r.o.sleep(ctx, r.o.limiter.DelayBeforeNextRequest(id)); err != nil {
			return r.cancelled(err)
		}

		page, err := r.fetch(ctx, cursor)
		if err != nil {
			if ctx.Err() != nil {
				return r.cancelled(err)
			}
			return r.abort(err)
		}
		r.o.metrics.PageFetched(ctx, id)

		r.progress.SetTotalPages(page.Pagination.TotalPages)
		if err := r.save(store); err != nil {
			return r.abort(err)
		}

		if recheck {
			recheck = false
			if page.Empty() || page.Pagination.TotalPages <= r.progress.LastProcessedPage {
				r.progress.MarkChecked(r.o.now())
				if err := r.save(store); err != nil {
					return r.abort(err)
				}
				logger.Info("%s re-check: %d pages reported, %d already processed, up to date",
					id, page.Pagination.TotalPages, r.progress.LastProcessedPage)
				r.result.Outcome = domain.OutcomeUpToDate
				return nil
			}

			logger.Info("%s re-check: %d pages reported, resuming after page %d",
				id, page.Pagination.TotalPages, r.progress.LastProcessedPage)
			r.progress.IsComplete = false
			if err := r.save(store); err != nil {
				return r.abort(err)
			}
			cursor = r.cursor()
			continue
		}

		if page.Empty() {
			logger.Info("%s page %d is empty, catalog complete", id, cursor.Page)
			return r.complete(store)
		}

		r.ingest(store, page)

		r.progress.Advance(cursor.Page)
		if err := r.save(store); err != nil {
			return r.abort(err)
		}
		r.result.LastPage = cursor.Page
		logger.Debug("%s page %d done (%d/%d pages, %d cards so far)",
			id, cursor.Page, cursor.Page, page.Pagination.TotalPages, r.result.CardsEmitted)

		if r.provider.IsExhausted(page.Pagination, cursor) {
			return r.complete(store)
		}

		cursor = r.provider.Advance(cursor, page.Pagination)
		r.o.updateStatus(id, func(s *domain.SyncStatus) {
			s.CurrentPage = cursor.Page
			s.CardsEmitted = r.result.CardsEmitted
		})
	}
}

func (r *run) cursor() driven.Cursor {
	c := r.provider.InitialCursor(r.progress, r.opts)
	c.Demo = r.demo
	return c
}

// fetch requests one page, retrying once after the cooldown when the
// provider rate-limits the first attempt.
func (r *run) fetch(ctx context.Context, cursor driven.Cursor) (*driven.RawPage, error) {
	id := r.sourceID()

	r.result.Requests++
	page, err := r.provider.FetchPage(ctx, cursor)
	if err == nil || !errors.Is(err, domain.ErrRateLimited) {
		return page, err
	}

	r.o.metrics.RateLimited(ctx, id)
	cooldown := r.o.limiter.OnRateLimitedResponse(id)
	logger.Warn("%s page %d rate limited, retrying in %s", id, cursor.Page, cooldown)
	if err := r.o.sleep(ctx, cooldown); err != nil {
		return nil, err
	}

	r.result.Requests++
	page, err = r.provider.FetchPage(ctx, cursor)
	if err != nil && errors.Is(err, domain.ErrRateLimited) {
		r.o.metrics.RateLimited(ctx, id)
	}
	return page, err
}

// ingest parses and emits every record of a page. Parse and sink failures
// drop the record only.
func (r *run) ingest(ctx context.Context, page *driven.RawPage) {
	id := r.sourceID()
	emitted := 0

	for _, rec := range page.Records {
		card, err := r.provider.ParseRecord(rec)
		if err != nil {
			r.result.ParseErrors++
			r.o.metrics.RecordRejected(ctx, id, "parse")
			logger.Warn("%s page %d: %v", id, page.Cursor.Page, err)
			continue
		}
		if err := r.o.sink.Emit(ctx, card); err != nil {
			r.result.SinkErrors++
			r.o.metrics.RecordRejected(ctx, id, "sink")
			logger.Warn("%s page %d: emit %q: %v", id, page.Cursor.Page, card.Name, err)
			continue
		}
		emitted++
	}

	r.result.CardsEmitted += emitted
	r.o.metrics.CardsEmitted(ctx, id, emitted)
}

func (r *run) complete(store context.Context) error {
	r.progress.MarkComplete(r.o.now())
	if err := r.save(store); err != nil {
		return r.abort(err)
	}
	r.result.Outcome = domain.OutcomeCompleted
	return nil
}

func (r *run) save(ctx context.Context) error {
	if err := r.o.progress.Save(ctx, r.progress); err != nil {
		return domain.StorageError("save progress", err)
	}
	return nil
}

func (r *run) abort(err error) error {
	r.result.Outcome = domain.OutcomeAborted
	r.result.Error = err.Error()
	return err
}

func (r *run) cancelled(err error) error {
	r.result.Outcome = domain.OutcomeCancelled
	r.result.Error = err.Error()
	return fmt.Errorf("sync %s cancelled: %w", r.sourceID(), err)
}

// finish stamps the result and reports the outcome.
func (r *run) finish(ctx context.Context, err error) {
	r.result.EndedAt = r.o.now()
	id := r.sourceID()
	r.o.metrics.RunFinished(context.WithoutCancel(ctx), id, r.result.Outcome, r.result.Duration())

	switch r.result.Outcome {
	case domain.OutcomeAborted:
		logger.Error("Sync %s aborted after page %d: %v", id, r.result.LastPage, err)
	case domain.OutcomeCancelled:
		logger.Warn("Sync %s cancelled after page %d", id, r.result.LastPage)
	default:
		logger.Info("Sync %s %s: %d requests, %d cards, %d parse errors, %d sink errors",
			id, r.result.Outcome, r.result.Requests, r.result.CardsEmitted, r.result.ParseErrors, r.result.SinkErrors)
	}
}
