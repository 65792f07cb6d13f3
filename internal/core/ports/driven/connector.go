package driven

import (
	"context"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

// Provider adapts one external card catalog API.
// Implementations are stateless between calls: all paging state lives in
// the Cursor and in the orchestrator's SyncProgress.
type Provider interface {
	// SourceID returns the catalog this provider serves.
	SourceID() domain.SourceID

	// InitialCursor returns the first cursor of a run.
	// A complete source starts at page 1 (re-check); otherwise the run
	// resumes at LastProcessedPage+1.
	InitialCursor(progress *domain.SyncProgress, opts domain.SyncOptions) Cursor

	// FetchPage performs one HTTP request for the cursor's page.
	// Errors satisfy errors.Is(err, domain.ErrRateLimited) for HTTP 429
	// and errors.Is(err, domain.ErrTransport) for every other failure.
	FetchPage(ctx context.Context, cursor Cursor) (*RawPage, error)

	// ParseRecord converts one raw record into a UnifiedCard.
	// Malformed records return a *domain.ParseError.
	ParseRecord(record RawRecord) (domain.UnifiedCard, error)

	// IsExhausted reports whether the cursor's page was the last one.
	IsExhausted(info PaginationInfo, cursor Cursor) bool

	// Advance returns the cursor for the following page.
	Advance(cursor Cursor, info PaginationInfo) Cursor
}

// Cursor identifies the next page to fetch.
type Cursor struct {
	// Page is the 1-based page number.
	Page int

	// Ceiling is the caller-supplied last page, zero for none.
	Ceiling int

	// Demo applies demo-mode paging limits where a provider has them.
	Demo bool

	// Token carries provider-specific state, such as a search query.
	Token string
}

// PaginationInfo is the provider's view of the catalog size after a fetch.
type PaginationInfo struct {
	// TotalPages is the derived or reported page count.
	TotalPages int

	// TotalRecords is the reported record count, zero when unknown.
	TotalRecords int

	// HasMore is the provider's own continuation flag.
	HasMore bool
}

// RawRecord is one undecoded record from a page.
type RawRecord struct {
	// Index is the record's position within its page.
	Index int

	// Data is the record's raw JSON.
	Data []byte
}

// RawPage is one fetched page.
type RawPage struct {
	// Cursor is the cursor the page was fetched with.
	Cursor Cursor

	// Records holds the page's raw records in provider order.
	Records []RawRecord

	// Pagination holds the page's pagination metadata.
	Pagination PaginationInfo
}

// Empty reports whether the page carried no records.
func (p *RawPage) Empty() bool {
	return p == nil || len(p.Records) == 0
}
