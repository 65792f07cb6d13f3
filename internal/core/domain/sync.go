package domain

import "time"

// SyncOptions tunes a single sync run.
type SyncOptions struct {
	// PageCeiling bounds the run to at most this page number.
	// Zero means no ceiling. Only providers that support a ceiling honour it.
	PageCeiling int
}

// RunState is a state of the per-source sync state machine.
type RunState string

const (
	RunStateIdle     RunState = "idle"
	RunStateDecide   RunState = "decide"
	RunStateSkipped  RunState = "skipped"
	RunStateRunning  RunState = "running"
	RunStateComplete RunState = "complete"
)

// RunOutcome describes how a sync run ended.
type RunOutcome string

const (
	// OutcomeSkipped means the source was complete and recently checked.
	OutcomeSkipped RunOutcome = "skipped"

	// OutcomeCompleted means the run reached the end of the catalog.
	OutcomeCompleted RunOutcome = "completed"

	// OutcomeUpToDate means a re-check found no new pages.
	OutcomeUpToDate RunOutcome = "up_to_date"

	// OutcomeAborted means a transport, rate-limit or storage failure ended
	// the run early. Progress points at the last fully ingested page.
	OutcomeAborted RunOutcome = "aborted"

	// OutcomeCancelled means the caller cancelled the run.
	OutcomeCancelled RunOutcome = "cancelled"
)

// SyncResult summarises one sync run.
type SyncResult struct {
	// RunID uniquely identifies the run.
	RunID string

	// SourceID is the synchronised source.
	SourceID SourceID

	// Outcome is how the run ended.
	Outcome RunOutcome

	// Recheck is true when the run started as a re-check of a complete source.
	Recheck bool

	// StartPage is the first page requested.
	StartPage int

	// LastPage is the last page fully processed during this run (0 if none).
	LastPage int

	// Requests counts outbound page requests, including the rate-limit retry.
	Requests int

	// CardsEmitted counts cards accepted by the sink.
	CardsEmitted int

	// ParseErrors counts records dropped because they could not be parsed.
	ParseErrors int

	// SinkErrors counts cards the sink rejected.
	SinkErrors int

	// StartedAt is when the run began.
	StartedAt time.Time

	// EndedAt is when the run finished.
	EndedAt time.Time

	// Error holds the failure message for aborted runs.
	Error string
}

// Duration returns how long the run took.
func (r *SyncResult) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// SyncStatus is a point-in-time view of a source for status polling.
type SyncStatus struct {
	// SourceID is the source being described.
	SourceID SourceID

	// State is the current state machine state.
	State RunState

	// RunID identifies the in-flight run, empty when idle.
	RunID string

	// CurrentPage is the page being fetched by the in-flight run.
	CurrentPage int

	// CardsEmitted counts cards emitted so far by the in-flight run.
	CardsEmitted int

	// Progress is the persisted progress record.
	Progress *SyncProgress

	// LastResult is the most recent finished run, if any.
	LastResult *SyncResult
}

// Running reports whether a run is in flight.
func (s *SyncStatus) Running() bool {
	return s.State == RunStateDecide || s.State == RunStateRunning
}
