package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/cardsync/internal/adapters/driving/tui"
	"github.com/custodia-labs/cardsync/internal/core/domain"
)

// isTerminal reports whether stdout is an interactive terminal.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // fd fits in int
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard of sync progress",
	Long: `Opens a terminal dashboard showing every catalog's state, page progress
and last run. Syncs can be started from the dashboard.

Controls:
  ↑/k, ↓/j - Select source
  s, Enter - Sync selected source
  a        - Sync all sources
  d        - Toggle demo mode
  r        - Refresh
  ?        - Toggle help
  q        - Quit

When stdout is not a terminal the current status is printed once instead.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Duration("refresh", tui.DefaultRefreshInterval, "status polling interval")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	if !isTerminal() {
		views := make([]statusView, 0, len(domain.AllSources()))
		for _, id := range domain.AllSources() {
			st, err := syncOrchestrator.Status(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("getting status of %s: %w", id, err)
			}
			views = append(views, newStatusView(st))
		}
		printStatusTable(cmd.OutOrStdout(), views)
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in dashboard: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	refresh, err := cmd.Flags().GetDuration("refresh")
	if err != nil {
		return fmt.Errorf("getting refresh flag: %w", err)
	}
	if refresh < 100*time.Millisecond {
		refresh = 100 * time.Millisecond
	}

	app, err := tui.NewApp(&tui.Ports{Sync: syncOrchestrator, Scheduler: scheduler})
	if err != nil {
		return fmt.Errorf("failed to create dashboard: %w", err)
	}
	app.WithContext(cmd.Context()).WithRefreshInterval(refresh)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}
