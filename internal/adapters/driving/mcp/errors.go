// Package mcp provides an MCP (Model Context Protocol) server adapter for cardsync.
// It lets AI assistants trigger catalog syncs and read sync progress and cards.
package mcp

import "errors"

// ErrMissingSyncOrchestrator is returned when the sync orchestrator is not provided.
var ErrMissingSyncOrchestrator = errors.New("mcp: sync orchestrator is required")
