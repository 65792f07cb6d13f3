package domain

import (
	"fmt"
	"time"
)

// DefaultDataDir is the directory holding the database and config file,
// relative to the user's home directory.
const DefaultDataDir = ".cardsync"

// SourceSettings holds per-provider configuration.
type SourceSettings struct {
	// Enabled controls whether the source is registered at startup.
	Enabled bool

	// BaseURL is the provider API root, without a trailing slash.
	BaseURL string

	// APIKey is sent with every request when set.
	APIKey string

	// PageSize is the requested records per page. Zero uses the provider default.
	PageSize int

	// Timeout bounds a single HTTP request.
	Timeout time.Duration

	// Query is the search query for providers that page through search results.
	Query string
}

// HasAPIKey reports whether a key is configured.
func (s SourceSettings) HasAPIKey() bool {
	return s.APIKey != ""
}

// AppConfig holds all application settings.
type AppConfig struct {
	// DemoMode wipes the catalog and progress of a source before every sync.
	DemoMode bool

	// DataDir is where the sqlite database lives.
	DataDir string

	// RecheckInterval is how long a completed source is trusted before a re-check.
	RecheckInterval time.Duration

	// Scheduler holds the periodic trigger configuration.
	Scheduler SchedulerConfig

	// Sources holds per-provider settings keyed by source.
	Sources map[SourceID]SourceSettings
}

// Source returns the settings for a source, or zero settings when absent.
func (c *AppConfig) Source(id SourceID) SourceSettings {
	if c.Sources == nil {
		return SourceSettings{}
	}
	return c.Sources[id]
}

// EnabledSources returns enabled sources in canonical order.
func (c *AppConfig) EnabledSources() []SourceID {
	var ids []SourceID
	for _, id := range AllSources() {
		if c.Source(id).Enabled {
			ids = append(ids, id)
		}
	}
	return ids
}

// Validate checks the configuration for values that cannot work.
func (c *AppConfig) Validate() error {
	if c.RecheckInterval < 0 {
		return fmt.Errorf("%w: recheck_interval must not be negative", ErrInvalidInput)
	}
	for id, s := range c.Sources {
		if !id.Valid() {
			return fmt.Errorf("%w: source %q", ErrUnsupportedType, id)
		}
		if s.PageSize < 0 {
			return fmt.Errorf("%w: sources.%s.page_size must not be negative", ErrInvalidInput, id)
		}
		if s.Timeout < 0 {
			return fmt.Errorf("%w: sources.%s.timeout must not be negative", ErrInvalidInput, id)
		}
	}
	return nil
}

// DefaultSourceSettings returns the built-in settings for each provider.
func DefaultSourceSettings() map[SourceID]SourceSettings {
	return map[SourceID]SourceSettings{
		SourcePokemon: {
			Enabled:  true,
			BaseURL:  "https://api.pokemontcg.io",
			PageSize: 50,
			Timeout:  120 * time.Second,
		},
		SourceMagic: {
			Enabled: true,
			BaseURL: "https://api.scryfall.com",
			Timeout: 30 * time.Second,
			Query:   "game:paper",
		},
		SourceOnePiece: {
			Enabled:  true,
			BaseURL:  "https://apitcg.com",
			PageSize: 100,
			Timeout:  60 * time.Second,
		},
	}
}

// DefaultAppConfig returns settings with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DemoMode:        false,
		DataDir:         DefaultDataDir,
		RecheckInterval: DefaultRecheckInterval,
		Scheduler:       DefaultSchedulerConfig(),
		Sources:         DefaultSourceSettings(),
	}
}
