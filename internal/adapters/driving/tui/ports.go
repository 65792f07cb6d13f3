// Package tui provides a live terminal dashboard of catalog sync state.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/cardsync/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the dashboard.
type Ports struct {
	// Sync provides status polling and run triggers.
	Sync driving.SyncOrchestrator

	// Scheduler lists periodic tasks. Optional.
	Scheduler driving.Scheduler
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Sync == nil {
		return ErrMissingSyncOrchestrator
	}
	return nil
}
