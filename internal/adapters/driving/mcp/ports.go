package mcp

import (
	"github.com/custodia-labs/cardsync/internal/core/ports/driven"
	"github.com/custodia-labs/cardsync/internal/core/ports/driving"
)

// Ports aggregates the port interfaces used by the MCP server.
type Ports struct {
	// Sync triggers runs and reports progress.
	Sync driving.SyncOrchestrator

	// Catalog lists stored cards. Optional; card resources are unavailable
	// without it.
	Catalog driven.CatalogReader
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Sync == nil {
		return ErrMissingSyncOrchestrator
	}
	return nil
}
