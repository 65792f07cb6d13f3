// Package domain defines the core business entities for cardsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - SourceID: One of the external card catalogs (pokemon, magic, onepiece)
//   - SyncProgress: The durable, resumable cursor for a source
//   - UnifiedCard: A provider-independent card record
//   - SyncResult / SyncStatus: Outcome and live state of a sync run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, github.com/shopspring/decimal
//   - Cannot Import: Any internal/ package
package domain
