package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

func TestPolicyFor(t *testing.T) {
	assert.Equal(t, PolicyMinute, PolicyFor(domain.SourcePokemon))
	assert.Equal(t, PolicySecond, PolicyFor(domain.SourceMagic))
	assert.Equal(t, PolicyMinute, PolicyFor(domain.SourceOnePiece))
	assert.Equal(t, PolicyMinute, PolicyFor("unknown"))
}

func TestPolicy_Next_SteadyBelowCap(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var s State

	for i := 1; i < PolicyMinute.Cap; i++ {
		var d time.Duration
		s, d = PolicyMinute.Next(s, now)
		assert.Equal(t, 200*time.Millisecond, d, "request %d", i)
		assert.Equal(t, i, s.RequestsInWindow)
	}
	assert.Equal(t, now, s.WindowStart)
}

func TestPolicy_Next_CapWaitsRestOfWindow(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := State{WindowStart: start, RequestsInWindow: 9}

	s, d := PolicyMinute.Next(s, start.Add(10*time.Second))

	assert.Equal(t, 10, s.RequestsInWindow)
	assert.Equal(t, 50*time.Second, d)
}

func TestPolicy_Next_CapWaitAtLeastMinimum(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := State{WindowStart: start, RequestsInWindow: 9}

	_, d := PolicyMinute.Next(s, start.Add(58*time.Second))
	assert.Equal(t, 6*time.Second, d)

	_, d = PolicySecond.Next(State{WindowStart: start, RequestsInWindow: 12}, start.Add(990*time.Millisecond))
	assert.Equal(t, 100*time.Millisecond, d)
}

func TestPolicy_Next_WindowResets(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := State{WindowStart: start, RequestsInWindow: 15}

	// Exactly one window later the window is still open.
	same, _ := PolicyMinute.Next(s, start.Add(time.Minute))
	assert.Equal(t, start, same.WindowStart)
	assert.Equal(t, 16, same.RequestsInWindow)

	later := start.Add(time.Minute + time.Millisecond)
	reset, d := PolicyMinute.Next(s, later)
	assert.Equal(t, later, reset.WindowStart)
	assert.Equal(t, 1, reset.RequestsInWindow)
	assert.Equal(t, 200*time.Millisecond, d)
}

func TestPolicy_Next_ZeroStateOpensWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	s, d := PolicySecond.Next(State{}, now)

	assert.Equal(t, now, s.WindowStart)
	assert.Equal(t, 1, s.RequestsInWindow)
	assert.Equal(t, 100*time.Millisecond, d)
}
