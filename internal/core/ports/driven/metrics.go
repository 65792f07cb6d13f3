package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

// SyncMetrics records sync pipeline measurements.
type SyncMetrics interface {
	// PageFetched counts one successful page request.
	PageFetched(ctx context.Context, sourceID domain.SourceID)

	// CardsEmitted counts cards accepted by the sink.
	CardsEmitted(ctx context.Context, sourceID domain.SourceID, n int)

	// RecordRejected counts a record dropped by the parser or the sink.
	// Stage is "parse" or "sink".
	RecordRejected(ctx context.Context, sourceID domain.SourceID, stage string)

	// RateLimited counts one HTTP 429.
	RateLimited(ctx context.Context, sourceID domain.SourceID)

	// RunFinished records a finished run's outcome and duration.
	RunFinished(ctx context.Context, sourceID domain.SourceID, outcome domain.RunOutcome, d time.Duration)
}
