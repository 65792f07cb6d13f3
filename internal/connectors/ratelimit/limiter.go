package ratelimit

import (
	"sync"
	"time"

	"github.com/custodia-labs/cardsync/internal/core/domain"
	"github.com/custodia-labs/cardsync/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.RateLimiter = (*Limiter)(nil)

// Limiter tracks request windows for every source.
type Limiter struct {
	mu       sync.Mutex
	states   map[domain.SourceID]State
	policies map[domain.SourceID]Policy
	now      func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// WithPolicy overrides the policy of one source.
func WithPolicy(sourceID domain.SourceID, p Policy) Option {
	return func(l *Limiter) {
		l.policies[sourceID] = p
	}
}

// New creates a limiter using the default per-source policies.
func New(opts ...Option) *Limiter {
	l := &Limiter{
		states:   make(map[domain.SourceID]State),
		policies: make(map[domain.SourceID]Policy),
		now:      time.Now,
	}
	for _, id := range domain.AllSources() {
		l.policies[id] = PolicyFor(id)
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// DelayBeforeNextRequest counts a request and returns the wait before it.
func (l *Limiter) DelayBeforeNextRequest(sourceID domain.SourceID) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	policy, ok := l.policies[sourceID]
	if !ok {
		policy = PolicyMinute
	}

	next, delay := policy.Next(l.states[sourceID], l.now())
	l.states[sourceID] = next
	return delay
}

// OnRateLimitedResponse returns the fixed cooldown after an HTTP 429.
func (l *Limiter) OnRateLimitedResponse(_ domain.SourceID) time.Duration {
	return RateLimitedCooldown
}

// State returns a snapshot of a source's window.
func (l *Limiter) State(sourceID domain.SourceID) State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.states[sourceID]
}
