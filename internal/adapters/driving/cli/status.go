package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status [source]",
	Short: "Show sync progress of each catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().Bool("json", false, "print status as JSON")
	rootCmd.AddCommand(statusCmd)
}

// statusView is the printable form of one catalog's status.
type statusView struct {
	Source      domain.SourceID `json:"source"`
	State       domain.RunState `json:"state"`
	CurrentPage int             `json:"current_page,omitempty"`
	LastPage    int             `json:"last_processed_page"`
	TotalPages  *int            `json:"total_pages"`
	Complete    bool            `json:"complete"`
	LastCheck   *time.Time      `json:"last_check,omitempty"`
	LastOutcome string          `json:"last_outcome,omitempty"`
	LastRunID   string          `json:"last_run_id,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	ids := domain.AllSources()
	if len(args) == 1 {
		id, err := domain.ParseSourceID(args[0])
		if err != nil {
			return err
		}
		ids = []domain.SourceID{id}
	}

	views := make([]statusView, 0, len(ids))
	for _, id := range ids {
		st, err := syncOrchestrator.Status(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("getting status of %s: %w", id, err)
		}
		views = append(views, newStatusView(st))
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		data, err := json.MarshalIndent(views, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding status: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printStatusTable(cmd.OutOrStdout(), views)
	return nil
}

func newStatusView(st *domain.SyncStatus) statusView {
	v := statusView{Source: st.SourceID, State: st.State, CurrentPage: st.CurrentPage}
	if p := st.Progress; p != nil {
		v.LastPage = p.LastProcessedPage
		v.TotalPages = p.TotalPagesKnown
		v.Complete = p.IsComplete
		v.LastCheck = p.LastCheckDate
	}
	if st.LastResult != nil {
		v.LastOutcome = string(st.LastResult.Outcome)
		v.LastRunID = st.LastResult.RunID
	}
	return v
}

func printStatusTable(w io.Writer, views []statusView) {
	fmt.Fprintf(w, "%-10s %-9s %-10s %-9s %-20s %s\n", "SOURCE", "STATE", "PAGE", "COMPLETE", "LAST CHECK", "LAST RUN")
	for _, v := range views {
		total := "?"
		if v.TotalPages != nil {
			total = fmt.Sprintf("%d", *v.TotalPages)
		}
		page := v.LastPage
		if v.CurrentPage > 0 {
			page = v.CurrentPage
		}
		checked := "never"
		if v.LastCheck != nil {
			checked = v.LastCheck.Local().Format("2006-01-02 15:04")
		}
		complete := "no"
		if v.Complete {
			complete = "yes"
		}
		lastRun := "-"
		if v.LastOutcome != "" {
			lastRun = v.LastOutcome
		}
		fmt.Fprintf(w, "%-10s %-9s %-10s %-9s %-20s %s\n",
			v.Source, v.State, fmt.Sprintf("%d/%s", page, total), complete, checked, lastRun)
	}
}
