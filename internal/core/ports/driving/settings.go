package driving

import "github.com/custodia-labs/cardsync/internal/core/domain"

// SettingsService resolves and updates application configuration.
type SettingsService interface {
	// Get returns the effective configuration: defaults, then the config
	// file, then environment overrides.
	Get() (*domain.AppConfig, error)

	// SetDemoMode persists the demo mode flag.
	SetDemoMode(enabled bool) error

	// SetAPIKey persists the API key of a source.
	SetAPIKey(sourceID domain.SourceID, key string) error
}
