package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cardsync/internal/core/domain"
	"github.com/custodia-labs/cardsync/internal/core/ports/driving"
)

// progressInterval is how often a foreground sync polls its status.
var progressInterval = 500 * time.Millisecond

var syncCmd = &cobra.Command{
	Use:   "sync [source]",
	Short: "Synchronise card catalogs from providers",
	Long: `Runs one catalog sync. A source may be given by name (pokemon, magic,
onepiece) or tag (A, B, C). Without a source every enabled catalog is
synchronised concurrently.

A run resumes from the last processed page. A completed catalog is skipped
until its re-check interval has passed, after which only the first page is
fetched to detect growth.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().Int("ceiling", 0, "stop after this page number (0 = no ceiling)")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	ceiling, err := cmd.Flags().GetInt("ceiling")
	if err != nil {
		return fmt.Errorf("getting ceiling flag: %w", err)
	}
	if ceiling < 0 {
		return fmt.Errorf("--ceiling must not be negative, got %d", ceiling)
	}

	ctx := cmd.Context()

	if len(args) == 0 {
		if ceiling > 0 {
			return errors.New("--ceiling requires a source")
		}
		cmd.Println("Synchronising all sources...")
		results, err := syncOrchestrator.SyncAll(ctx)
		for _, res := range results {
			printResult(cmd, res)
		}
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		return nil
	}

	sourceID, err := domain.ParseSourceID(args[0])
	if err != nil {
		return err
	}

	cmd.Printf("Synchronising %s...\n", sourceID.DisplayName())
	res, err := syncWithProgress(ctx, cmd, syncOrchestrator, sourceID, domain.SyncOptions{PageCeiling: ceiling})
	if errors.Is(err, domain.ErrSyncInProgress) {
		return fmt.Errorf("a sync of %s is already running", sourceID)
	}
	if res != nil {
		printResult(cmd, res)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	return nil
}

// syncWithProgress runs sync while displaying page progress.
func syncWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	syncOrch driving.SyncOrchestrator,
	sourceID domain.SourceID,
	opts domain.SyncOptions,
) (*domain.SyncResult, error) {
	type outcome struct {
		res *domain.SyncResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := syncOrch.Sync(ctx, sourceID, opts)
		done <- outcome{res, err}
	}()

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	printed := false
	lastPage := 0
	for {
		select {
		case o := <-done:
			if printed {
				cmd.Println()
			}
			return o.res, o.err
		case <-ticker.C:
			// Best effort; a failed poll just skips this update.
			status, err := syncOrch.Status(ctx, sourceID)
			if err != nil || status == nil || !status.Running() || status.CurrentPage == lastPage {
				continue
			}
			lastPage = status.CurrentPage
			cmd.Printf("\rPage %d, %d cards", status.CurrentPage, status.CardsEmitted)
			printed = true
		}
	}
}

func printResult(cmd *cobra.Command, res *domain.SyncResult) {
	if res == nil {
		return
	}
	switch res.Outcome {
	case domain.OutcomeSkipped:
		cmd.Printf("%s: up to date, next re-check pending\n", res.SourceID)
	case domain.OutcomeAborted, domain.OutcomeCancelled:
		cmd.Printf("%s: %s at page %d after %d cards: %s\n",
			res.SourceID, res.Outcome, res.LastPage, res.CardsEmitted, res.Error)
	default:
		cmd.Printf("%s: %s, pages %d-%d, %d cards (%d parse errors, %d sink errors) in %s\n",
			res.SourceID, res.Outcome, res.StartPage, res.LastPage, res.CardsEmitted,
			res.ParseErrors, res.SinkErrors, res.Duration().Round(time.Millisecond))
	}
}
