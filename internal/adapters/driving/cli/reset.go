package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

var resetCmd = &cobra.Command{
	Use:   "reset <source>",
	Short: "Delete a catalog and its progress",
	Long: `Deletes every stored card of a source and resets its progress to page 0.
The next sync re-imports the catalog from page 1.`,
	Args: cobra.ExactArgs(1),
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	sourceID, err := domain.ParseSourceID(args[0])
	if err != nil {
		return err
	}

	if err := syncOrchestrator.Reset(cmd.Context(), sourceID); err != nil {
		if errors.Is(err, domain.ErrSyncInProgress) {
			return fmt.Errorf("cannot reset %s while it is syncing", sourceID)
		}
		return fmt.Errorf("reset failed: %w", err)
	}

	cmd.Printf("Reset %s: cards and progress deleted.\n", sourceID.DisplayName())
	return nil
}
