// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. It implements several store interfaces through a single database connection:
//
//   - ProgressStore: resumable per-source sync progress
//   - CatalogStore: normalised cards (CatalogSink and CatalogReader)
//   - SchedulerStore: scheduled task state and run history
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration records its own version.
//
// # Data Location
//
// By default, the database is stored at ~/.cardsync/cardsync.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. The store relies on SQLite in WAL
// mode with a busy timeout for locking.
package sqlite
