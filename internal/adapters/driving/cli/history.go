package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

var historyCmd = &cobra.Command{
	Use:   "history <source>",
	Short: "Show recent scheduled sync runs of a catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 10, "number of runs to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	sourceID, err := domain.ParseSourceID(args[0])
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	results, err := scheduler.History(cmd.Context(), sourceID, limit)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	if len(results) == 0 {
		cmd.Printf("No scheduled runs recorded for %s.\n", sourceID.DisplayName())
		return nil
	}

	cmd.Printf("%-20s %-9s %-6s %s\n", "STARTED", "DURATION", "CARDS", "RESULT")
	for _, r := range results {
		outcome := "ok"
		if !r.Success {
			outcome = "failed: " + r.Error
		}
		cmd.Printf("%-20s %-9s %-6d %s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.EndedAt.Sub(r.StartedAt).Round(time.Second),
			r.ItemsProcessed, outcome)
	}
	return nil
}
