package onepiece

import (
	"strings"
	"time"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

const (
	// DefaultBaseURL is the public apitcg root.
	DefaultBaseURL = "https://apitcg.com"

	// DefaultPageSize is the largest limit the API accepts.
	DefaultPageSize = 100

	// DefaultTimeout bounds one request.
	DefaultTimeout = 60 * time.Second

	// DemoPageCap bounds demo-mode runs regardless of the true total.
	DemoPageCap = 100

	// HeaderAPIKey carries the optional API key.
	HeaderAPIKey = "x-api-key"
)

// Config holds the parsed configuration for the One Piece connector.
type Config struct {
	BaseURL     string
	APIKey      string
	PageSize    int
	Timeout     time.Duration
	DemoPageCap int
}

// ParseConfig builds a Config from source settings, filling defaults.
func ParseConfig(s domain.SourceSettings) *Config {
	cfg := &Config{
		BaseURL:     strings.TrimRight(s.BaseURL, "/"),
		APIKey:      s.APIKey,
		PageSize:    s.PageSize,
		Timeout:     s.Timeout,
		DemoPageCap: DemoPageCap,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PageSize <= 0 || cfg.PageSize > DefaultPageSize {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return cfg
}
