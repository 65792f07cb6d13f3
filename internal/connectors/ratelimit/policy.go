package ratelimit

import (
	"time"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

const (
	// RateLimitedCooldown is the wait after an HTTP 429, for every source.
	RateLimitedCooldown = 60 * time.Second

	// CourtesyDelay is the flat pause between bulk fetch requests.
	CourtesyDelay = 200 * time.Millisecond
)

// Policy describes a fixed-window request budget.
type Policy struct {
	// Window is the length of one counting window.
	Window time.Duration

	// Cap is the request count at which the caller must wait out the window.
	Cap int

	// SteadyDelay is the pause between requests below the cap.
	SteadyDelay time.Duration

	// MinCapWait is the least the caller waits once the cap is reached.
	MinCapWait time.Duration
}

// PolicyMinute is ten requests per minute with a 200ms steady pace.
// Used for the Pokemon and One Piece catalogs.
var PolicyMinute = Policy{
	Window:      time.Minute,
	Cap:         10,
	SteadyDelay: 200 * time.Millisecond,
	MinCapWait:  6 * time.Second,
}

// PolicySecond is ten requests per second with a 100ms steady pace.
// Used for Scryfall.
var PolicySecond = Policy{
	Window:      time.Second,
	Cap:         10,
	SteadyDelay: 100 * time.Millisecond,
	MinCapWait:  100 * time.Millisecond,
}

// PolicyFor returns the policy for a source. Unknown sources get PolicyMinute.
func PolicyFor(sourceID domain.SourceID) Policy {
	if sourceID == domain.SourceMagic {
		return PolicySecond
	}
	return PolicyMinute
}

// State is the counting state of one source's window.
type State struct {
	// WindowStart is when the current window opened.
	WindowStart time.Time

	// RequestsInWindow counts requests made in the current window.
	RequestsInWindow int
}

// Next counts one request at now and returns the updated state with the
// delay the caller must observe before sending it.
//
// The window reopens once more than a full window has passed since
// WindowStart. When the count reaches Cap the delay is the rest of the
// window, but never less than MinCapWait.
func (p Policy) Next(s State, now time.Time) (State, time.Duration) {
	if now.Add(-p.Window).After(s.WindowStart) {
		s.WindowStart = now
		s.RequestsInWindow = 0
	}

	s.RequestsInWindow++

	if s.RequestsInWindow >= p.Cap {
		remaining := s.WindowStart.Add(p.Window).Sub(now)
		return s, max(remaining, p.MinCapWait)
	}
	return s, p.SteadyDelay
}
