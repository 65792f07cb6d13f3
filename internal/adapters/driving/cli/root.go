// Package cli provides the cobra command tree for cardsync.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cardsync/internal/core/ports/driven"
	"github.com/custodia-labs/cardsync/internal/core/ports/driving"
	"github.com/custodia-labs/cardsync/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired by the composition root.
var (
	syncOrchestrator driving.SyncOrchestrator
	bulkFetcher      driving.BulkFetcher
	settingsService  driving.SettingsService
	scheduler        driving.Scheduler
	catalogReader    driven.CatalogReader
	configWatcher    driven.ConfigWatcher
)

// Services holds the ports the commands run against.
type Services struct {
	Sync      driving.SyncOrchestrator
	Bulk      driving.BulkFetcher
	Settings  driving.SettingsService
	Scheduler driving.Scheduler
	Catalog   driven.CatalogReader
	Watcher   driven.ConfigWatcher
}

var rootCmd = &cobra.Command{
	Use:   "cardsync",
	Short: "Resumable trading card catalog sync",
	Long: `cardsync keeps a local catalog of Pokemon, Magic: The Gathering and
One Piece cards in sync with the public provider APIs.

Syncs resume from the last processed page, respect each provider's rate
limits and re-check completed catalogs every six hours by default.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if verbose, err := cmd.Flags().GetBool("verbose"); err == nil {
			logger.SetVerbose(verbose)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print sync progress and decisions to stderr")
}

// SetServices installs the services used by every command.
func SetServices(s Services) {
	syncOrchestrator = s.Sync
	bulkFetcher = s.Bulk
	settingsService = s.Settings
	scheduler = s.Scheduler
	catalogReader = s.Catalog
	configWatcher = s.Watcher
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
