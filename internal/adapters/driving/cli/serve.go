package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/cardsync/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scheduled syncs until interrupted",
	Long: `Runs the periodic scheduler, which triggers one catalog sync per enabled
source on its interval. Changes to demo_mode in the config file are applied
without a restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	cmd.Println("Scheduler running. Press Ctrl+C to stop.")

	p := pool.New().WithContext(cmd.Context()).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("scheduler: %w", err)
		}
		return nil
	})
	if configWatcher != nil {
		p.Go(func(ctx context.Context) error {
			if err := configWatcher.Watch(ctx, reloadDemoMode); err != nil {
				return fmt.Errorf("config watcher: %w", err)
			}
			return nil
		})
	}

	err := p.Wait()
	if stopErr := scheduler.Stop(); stopErr != nil {
		logger.Warn("scheduler stop: %v", stopErr)
	}
	if err != nil {
		return err
	}
	cmd.Println("Scheduler stopped.")
	return nil
}

// reloadDemoMode applies the demo flag from freshly loaded settings.
func reloadDemoMode() {
	if settingsService == nil || syncOrchestrator == nil {
		return
	}
	cfg, err := settingsService.Get()
	if err != nil {
		logger.Warn("reloading settings: %v", err)
		return
	}
	syncOrchestrator.SetDemoMode(cfg.DemoMode)
}
