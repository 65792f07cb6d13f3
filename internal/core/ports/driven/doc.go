// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Provider: Fetches and normalises pages from one card catalog API
//   - ProviderRegistry: Looks up the provider registered for a source
//   - RateLimiter: Decides how long to wait before each outbound request
//   - ProgressStore: Durable per-source sync progress
//   - CatalogSink: Receives normalised cards
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SchedulerStore: Scheduler task state. Without it, task state is in-memory only.
//   - CatalogReader: Read access to stored cards for operator commands.
//   - SyncMetrics: Pipeline measurements. Without it, nothing is recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
