// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"time"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

// Tick triggers a periodic status refresh.
type Tick struct {
	At time.Time
}

// StatusesLoaded carries the status of every source.
type StatusesLoaded struct {
	Statuses []domain.SyncStatus
	Err      error
}

// SyncStarted is sent when a run has been requested for a source.
type SyncStarted struct {
	SourceID domain.SourceID
}

// SyncFinished carries the result of a run started from the dashboard.
type SyncFinished struct {
	SourceID domain.SourceID
	Result   *domain.SyncResult
	Err      error
}

// DemoToggled is sent after demo mode was flipped.
type DemoToggled struct {
	Enabled bool
}

// ErrorOccurred is sent when an error needs to be displayed.
type ErrorOccurred struct {
	Err error
}
