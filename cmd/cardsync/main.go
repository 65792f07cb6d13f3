// Command cardsync keeps local trading card catalogs in sync with the
// Pokemon TCG, Scryfall and One Piece TCG APIs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/custodia-labs/cardsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/cardsync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/cardsync/internal/adapters/driving/cli"
	"github.com/custodia-labs/cardsync/internal/connectors"
	"github.com/custodia-labs/cardsync/internal/connectors/ratelimit"
	"github.com/custodia-labs/cardsync/internal/core/domain"
	"github.com/custodia-labs/cardsync/internal/core/services"
	"github.com/custodia-labs/cardsync/internal/logger"
	"github.com/custodia-labs/cardsync/internal/telemetry"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

// keyBulkSources lists the sources the fetch command may use.
const keyBulkSources = "bulk_sources"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	settings := services.NewSettingsService(configStore)
	cfg, err := settings.Get()
	if err != nil {
		return fmt.Errorf("resolving settings: %w", err)
	}

	dataDir, err := resolveDataDir(cfg.DataDir)
	if err != nil {
		return err
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	tp, err := telemetry.NewProvider(ctx, telemetry.DefaultConfig(version))
	if err != nil {
		return fmt.Errorf("initialising telemetry: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown: %v", err)
		}
	}()
	metrics, err := telemetry.NewSyncMetrics(tp.Meter(telemetry.MeterName))
	if err != nil {
		return fmt.Errorf("creating metrics: %w", err)
	}

	registry := connectors.NewRegistryFromConfig(cfg)
	catalog := store.CatalogStore()

	syncOrch := services.NewSyncOrchestrator(
		registry,
		store.ProgressStore(),
		catalog,
		ratelimit.New(),
		services.WithDemoMode(cfg.DemoMode),
		services.WithRecheckInterval(cfg.RecheckInterval),
		services.WithMetrics(metrics),
	)

	var bulkOpts []services.BulkOption
	if ids := bulkSources(configStore.GetStringSlice(keyBulkSources)); len(ids) > 0 {
		bulkOpts = append(bulkOpts, services.WithBulkSources(ids...))
	}

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Sync:      syncOrch,
		Bulk:      services.NewBulkFetcher(registry, bulkOpts...),
		Settings:  settings,
		Scheduler: services.NewScheduler(cfg.Scheduler, store.SchedulerStore(), syncOrch),
		Catalog:   catalog,
		Watcher:   file.NewWatcher(configStore),
	})

	return cli.Execute(ctx)
}

// resolveDataDir expands the configured data directory. The default maps to
// the store's own default under the home directory.
func resolveDataDir(dir string) (string, error) {
	if dir == "" || dir == domain.DefaultDataDir {
		return "", nil
	}
	if rest, ok := strings.CutPrefix(dir, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		return filepath.Join(home, rest), nil
	}
	return dir, nil
}

// bulkSources parses configured source names, skipping unknown ones.
func bulkSources(names []string) []domain.SourceID {
	var ids []domain.SourceID
	for _, name := range names {
		id, err := domain.ParseSourceID(name)
		if err != nil {
			logger.Warn("%s: %v", keyBulkSources, err)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
