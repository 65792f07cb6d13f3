package scryfall

import (
	"strings"
	"time"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

const (
	// DefaultBaseURL is the public Scryfall API root.
	DefaultBaseURL = "https://api.scryfall.com"

	// PageSize is fixed by Scryfall.
	PageSize = 175

	// DefaultQuery selects every paper card.
	DefaultQuery = "game:paper"

	// DefaultTimeout bounds one request.
	DefaultTimeout = 30 * time.Second
)

// Config holds the parsed configuration for the Scryfall connector.
type Config struct {
	BaseURL string
	Query   string
	Timeout time.Duration
}

// ParseConfig builds a Config from source settings, filling defaults.
func ParseConfig(s domain.SourceSettings) *Config {
	cfg := &Config{
		BaseURL: strings.TrimRight(s.BaseURL, "/"),
		Query:   strings.TrimSpace(s.Query),
		Timeout: s.Timeout,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Query == "" {
		cfg.Query = DefaultQuery
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return cfg
}
