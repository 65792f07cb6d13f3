package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

// SyncInput is the input schema for the sync_source tool.
type SyncInput struct {
	Source      string `json:"source" jsonschema:"catalog to sync: pokemon, magic or onepiece"`
	PageCeiling int    `json:"page_ceiling,omitempty" jsonschema:"stop after this page number (0 = no ceiling)"`
}

// SyncOutput is the output schema for the sync_source tool.
type SyncOutput struct {
	RunID        string `json:"run_id"`
	Source       string `json:"source"`
	Outcome      string `json:"outcome"`
	StartPage    int    `json:"start_page"`
	LastPage     int    `json:"last_page"`
	Requests     int    `json:"requests"`
	CardsEmitted int    `json:"cards_emitted"`
	ParseErrors  int    `json:"parse_errors"`
	SinkErrors   int    `json:"sink_errors"`
	DurationMS   int64  `json:"duration_ms"`
	Error        string `json:"error,omitempty"`
}

// SourceInput names a single catalog.
type SourceInput struct {
	Source string `json:"source" jsonschema:"catalog: pokemon, magic or onepiece"`
}

// StatusOutput is the output schema for the sync_status tool.
type StatusOutput struct {
	Sources []SourceStatus `json:"sources"`
}

// SourceStatus is the live and persisted state of one catalog.
type SourceStatus struct {
	Source            string `json:"source"`
	State             string `json:"state"`
	CurrentPage       int    `json:"current_page,omitempty"`
	LastProcessedPage int    `json:"last_processed_page"`
	TotalPages        *int   `json:"total_pages,omitempty"`
	Complete          bool   `json:"complete"`
	LastCheck         string `json:"last_check,omitempty"`
	LastOutcome       string `json:"last_outcome,omitempty"`
}

// ResetOutput is the output schema for the reset_source tool.
type ResetOutput struct {
	Source string `json:"source"`
	Reset  bool   `json:"reset"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sync_source",
		Description: "Run one catalog sync for a source and return the run summary",
	}, s.handleSync)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sync_status",
		Description: "Report sync state and progress; all sources when source is empty",
	}, s.handleStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reset_source",
		Description: "Delete a source's cards and progress so the next sync starts from page 1",
	}, s.handleReset)
}

func (s *Server) handleSync(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SyncInput,
) (*mcp.CallToolResult, SyncOutput, error) {
	id, err := domain.ParseSourceID(input.Source)
	if err != nil {
		return nil, SyncOutput{}, err
	}
	if input.PageCeiling < 0 {
		return nil, SyncOutput{}, fmt.Errorf("%w: page_ceiling must not be negative", domain.ErrInvalidInput)
	}

	res, err := s.ports.Sync.Sync(ctx, id, domain.SyncOptions{PageCeiling: input.PageCeiling})
	if err != nil {
		return nil, SyncOutput{}, err
	}
	return nil, toSyncOutput(res), nil
}

func (s *Server) handleStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SourceInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	ids := domain.AllSources()
	if input.Source != "" {
		id, err := domain.ParseSourceID(input.Source)
		if err != nil {
			return nil, StatusOutput{}, err
		}
		ids = []domain.SourceID{id}
	}

	out := StatusOutput{Sources: make([]SourceStatus, 0, len(ids))}
	for _, id := range ids {
		st, err := s.ports.Sync.Status(ctx, id)
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("status of %s: %w", id, err)
		}
		out.Sources = append(out.Sources, toSourceStatus(st))
	}
	return nil, out, nil
}

func (s *Server) handleReset(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SourceInput,
) (*mcp.CallToolResult, ResetOutput, error) {
	id, err := domain.ParseSourceID(input.Source)
	if err != nil {
		return nil, ResetOutput{}, err
	}
	if err := s.ports.Sync.Reset(ctx, id); err != nil {
		return nil, ResetOutput{}, err
	}
	return nil, ResetOutput{Source: string(id), Reset: true}, nil
}

func toSyncOutput(res *domain.SyncResult) SyncOutput {
	return SyncOutput{
		RunID:        res.RunID,
		Source:       string(res.SourceID),
		Outcome:      string(res.Outcome),
		StartPage:    res.StartPage,
		LastPage:     res.LastPage,
		Requests:     res.Requests,
		CardsEmitted: res.CardsEmitted,
		ParseErrors:  res.ParseErrors,
		SinkErrors:   res.SinkErrors,
		DurationMS:   res.Duration().Milliseconds(),
		Error:        res.Error,
	}
}

func toSourceStatus(st *domain.SyncStatus) SourceStatus {
	out := SourceStatus{
		Source:      string(st.SourceID),
		State:       string(st.State),
		CurrentPage: st.CurrentPage,
	}
	if p := st.Progress; p != nil {
		out.LastProcessedPage = p.LastProcessedPage
		out.TotalPages = p.TotalPagesKnown
		out.Complete = p.IsComplete
		if p.LastCheckDate != nil {
			out.LastCheck = p.LastCheckDate.UTC().Format(time.RFC3339)
		}
	}
	if st.LastResult != nil {
		out.LastOutcome = string(st.LastResult.Outcome)
	}
	return out
}
