package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/custodia-labs/cardsync/internal/core/domain"
	"github.com/custodia-labs/cardsync/internal/core/ports/driven"
)

// MeterName is the instrumentation scope of the sync metrics.
const MeterName = "cardsync/sync"

// Attribute keys.
const (
	AttrSource  = attribute.Key("source")
	AttrStage   = attribute.Key("stage")
	AttrOutcome = attribute.Key("outcome")
)

// Ensure SyncMetrics implements the interface.
var _ driven.SyncMetrics = (*SyncMetrics)(nil)

// SyncMetrics records sync pipeline measurements as OpenTelemetry instruments.
type SyncMetrics struct {
	pages       metric.Int64Counter
	cards       metric.Int64Counter
	rejected    metric.Int64Counter
	rateLimited metric.Int64Counter
	runs        metric.Int64Counter
	runDuration metric.Float64Histogram
}

// NewSyncMetrics creates the sync instruments on meter.
func NewSyncMetrics(meter metric.Meter) (*SyncMetrics, error) {
	m := &SyncMetrics{}
	var err error

	if m.pages, err = meter.Int64Counter("cardsync_pages_fetched",
		metric.WithDescription("Catalog pages fetched from providers"),
		metric.WithUnit("{page}")); err != nil {
		return nil, err
	}
	if m.cards, err = meter.Int64Counter("cardsync_cards_emitted",
		metric.WithDescription("Cards accepted by the catalog sink"),
		metric.WithUnit("{card}")); err != nil {
		return nil, err
	}
	if m.rejected, err = meter.Int64Counter("cardsync_records_rejected",
		metric.WithDescription("Records dropped by the parser or the sink"),
		metric.WithUnit("{record}")); err != nil {
		return nil, err
	}
	if m.rateLimited, err = meter.Int64Counter("cardsync_rate_limited",
		metric.WithDescription("HTTP 429 responses from providers"),
		metric.WithUnit("{response}")); err != nil {
		return nil, err
	}
	if m.runs, err = meter.Int64Counter("cardsync_runs",
		metric.WithDescription("Finished sync runs by outcome"),
		metric.WithUnit("{run}")); err != nil {
		return nil, err
	}
	if m.runDuration, err = meter.Float64Histogram("cardsync_run_duration",
		metric.WithDescription("Wall time of finished sync runs"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	return m, nil
}

// PageFetched counts one successful page request.
func (m *SyncMetrics) PageFetched(ctx context.Context, sourceID domain.SourceID) {
	m.pages.Add(ctx, 1, metric.WithAttributes(AttrSource.String(string(sourceID))))
}

// CardsEmitted counts cards accepted by the sink.
func (m *SyncMetrics) CardsEmitted(ctx context.Context, sourceID domain.SourceID, n int) {
	if n <= 0 {
		return
	}
	m.cards.Add(ctx, int64(n), metric.WithAttributes(AttrSource.String(string(sourceID))))
}

// RecordRejected counts a dropped record.
func (m *SyncMetrics) RecordRejected(ctx context.Context, sourceID domain.SourceID, stage string) {
	m.rejected.Add(ctx, 1, metric.WithAttributes(
		AttrSource.String(string(sourceID)),
		AttrStage.String(stage),
	))
}

// RateLimited counts one HTTP 429.
func (m *SyncMetrics) RateLimited(ctx context.Context, sourceID domain.SourceID) {
	m.rateLimited.Add(ctx, 1, metric.WithAttributes(AttrSource.String(string(sourceID))))
}

// RunFinished records a finished run's outcome and duration.
func (m *SyncMetrics) RunFinished(ctx context.Context, sourceID domain.SourceID, outcome domain.RunOutcome, d time.Duration) {
	attrs := metric.WithAttributes(
		AttrSource.String(string(sourceID)),
		AttrOutcome.String(string(outcome)),
	)
	m.runs.Add(ctx, 1, attrs)
	m.runDuration.Record(ctx, d.Seconds(), attrs)
}
