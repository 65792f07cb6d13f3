package driven

import (
	"time"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

// RateLimiter tracks per-source request windows.
// Each call to DelayBeforeNextRequest counts as one request in the
// source's current window.
type RateLimiter interface {
	// DelayBeforeNextRequest returns how long to wait before the next request.
	DelayBeforeNextRequest(sourceID domain.SourceID) time.Duration

	// OnRateLimitedResponse returns the cooldown after an HTTP 429.
	OnRateLimitedResponse(sourceID domain.SourceID) time.Duration
}
