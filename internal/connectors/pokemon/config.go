package pokemon

import (
	"strings"
	"time"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

const (
	// DefaultBaseURL is the public Pokemon TCG API root.
	DefaultBaseURL = "https://api.pokemontcg.io"

	// DefaultPageSize is the number of cards requested per page.
	DefaultPageSize = 50

	// DefaultTimeout bounds one request. The API is slow for deep pages.
	DefaultTimeout = 120 * time.Second

	// DefaultMaxRetries is how often a transient failure is retried.
	DefaultMaxRetries = 3

	// DefaultInitialBackoff is the first retry interval.
	DefaultInitialBackoff = 5 * time.Second

	// OrderBy keeps page contents stable as new sets are published.
	OrderBy = "set.releaseDate"

	// HeaderAPIKey carries the optional API key.
	HeaderAPIKey = "X-Api-Key"
)

// Config holds the parsed configuration for the Pokemon connector.
type Config struct {
	BaseURL        string
	APIKey         string
	PageSize       int
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
}

// ParseConfig builds a Config from source settings, filling defaults.
func ParseConfig(s domain.SourceSettings) *Config {
	cfg := &Config{
		BaseURL:        strings.TrimRight(s.BaseURL, "/"),
		APIKey:         s.APIKey,
		PageSize:       s.PageSize,
		Timeout:        s.Timeout,
		MaxRetries:     DefaultMaxRetries,
		InitialBackoff: DefaultInitialBackoff,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return cfg
}
