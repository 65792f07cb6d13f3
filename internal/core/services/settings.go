package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/custodia-labs/cardsync/internal/core/domain"
	"github.com/custodia-labs/cardsync/internal/core/ports/driven"
	"github.com/custodia-labs/cardsync/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyDemoMode          = "demo_mode"
	keyDataDir           = "data_dir"
	keyRecheckInterval   = "recheck_interval"
	keySchedulerEnabled  = "scheduler.enabled"
	keySchedulerInterval = "scheduler.interval"
)

// Environment overrides.
//
//nolint:gosec // G101: These are variable names, not credentials.
const (
	EnvPokemonAPIKey  = "POKEMON_TCG_API_KEY"
	EnvOnePieceAPIKey = "ONE_PIECE_API_KEY"
	EnvDemoMode       = "CARDSYNC_DEMO"
)

var apiKeyEnv = map[domain.SourceID]string{
	domain.SourcePokemon:  EnvPokemonAPIKey,
	domain.SourceOnePiece: EnvOnePieceAPIKey,
}

func sourceKey(id domain.SourceID, field string) string {
	return "sources." + string(id) + "." + field
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service reading the process
// environment.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore, lookupEnv: os.LookupEnv}
}

// Get retrieves the effective configuration. Keys missing from the store
// keep their defaults.
func (s *SettingsService) Get() (*domain.AppConfig, error) {
	cfg := domain.DefaultAppConfig()

	cfg.DemoMode = s.getBool(keyDemoMode, cfg.DemoMode)
	if dir := s.configStore.GetString(keyDataDir); dir != "" {
		cfg.DataDir = dir
	}
	if d := s.configStore.GetDuration(keyRecheckInterval); d > 0 {
		cfg.RecheckInterval = d
	}

	cfg.Scheduler.Enabled = s.getBool(keySchedulerEnabled, cfg.Scheduler.Enabled)
	interval := s.configStore.GetDuration(keySchedulerInterval)

	for _, id := range domain.AllSources() {
		src := cfg.Sources[id]
		src.Enabled = s.getBool(sourceKey(id, "enabled"), src.Enabled)
		if v := s.configStore.GetString(sourceKey(id, "base_url")); v != "" {
			src.BaseURL = strings.TrimRight(v, "/")
		}
		if v := s.configStore.GetString(sourceKey(id, "api_key")); v != "" {
			src.APIKey = v
		}
		if v := s.configStore.GetInt(sourceKey(id, "page_size")); v != 0 {
			src.PageSize = v
		}
		if v := s.configStore.GetDuration(sourceKey(id, "timeout")); v != 0 {
			src.Timeout = v
		}
		if v := s.configStore.GetString(sourceKey(id, "query")); v != "" {
			src.Query = v
		}
		if env, ok := apiKeyEnv[id]; ok {
			if v, ok := s.lookupEnv(env); ok && v != "" {
				src.APIKey = v
			}
		}
		cfg.Sources[id] = src

		taskID := domain.CatalogSyncTaskID(id)
		task := cfg.Scheduler.GetTaskConfig(taskID)
		task.Enabled = src.Enabled
		if interval > 0 {
			task.Interval = interval
		}
		cfg.Scheduler.TaskConfigs[taskID] = task
	}

	if v, ok := s.lookupEnv(EnvDemoMode); ok && v != "" {
		demo, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q", domain.ErrInvalidInput, EnvDemoMode, v)
		}
		cfg.DemoMode = demo
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDemoMode updates the demo mode flag.
func (s *SettingsService) SetDemoMode(enabled bool) error {
	if err := s.configStore.Set(keyDemoMode, enabled); err != nil {
		return fmt.Errorf("save demo mode: %w", err)
	}
	return nil
}

// SetAPIKey updates the API key of a source.
func (s *SettingsService) SetAPIKey(sourceID domain.SourceID, key string) error {
	if !sourceID.Valid() {
		return fmt.Errorf("%w: unknown source %q", domain.ErrUnsupportedType, sourceID)
	}
	if err := s.configStore.Set(sourceKey(sourceID, "api_key"), key); err != nil {
		return fmt.Errorf("save %s api_key: %w", sourceID, err)
	}
	return nil
}

// getBool returns the stored bool, or def when the key is absent.
func (s *SettingsService) getBool(key string, def bool) bool {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetBool(key)
}
