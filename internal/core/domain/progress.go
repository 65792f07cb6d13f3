package domain

import "time"

// DefaultRecheckInterval is how long a completed source is trusted before
// a re-check run looks for newly published records.
const DefaultRecheckInterval = 6 * time.Hour

// SyncProgress is the durable, resumable cursor for one source.
type SyncProgress struct {
	// SourceID identifies the catalog.
	SourceID SourceID

	// LastProcessedPage is the highest page whose records were all
	// handed to the catalog sink.
	LastProcessedPage int

	// TotalPagesKnown is the most recent total-page estimate, or nil if
	// no page has been fetched yet.
	TotalPagesKnown *int

	// IsComplete indicates every page has been ingested.
	IsComplete bool

	// LastUpdated is stamped by the store on every save.
	LastUpdated time.Time

	// LastCheckDate is set when the source completes or is re-checked.
	LastCheckDate *time.Time
}

// NewSyncProgress returns the zero-valued progress for a source.
func NewSyncProgress(sourceID SourceID) *SyncProgress {
	return &SyncProgress{SourceID: sourceID}
}

// NextPage returns the page a resumed run starts from.
func (p *SyncProgress) NextPage() int {
	return p.LastProcessedPage + 1
}

// NeedsRecheck reports whether a completed source is due for a re-check.
// A completed source with no check date is always due.
func (p *SyncProgress) NeedsRecheck(now time.Time, interval time.Duration) bool {
	if p.LastCheckDate == nil {
		return true
	}
	return p.LastCheckDate.Before(now.Add(-interval))
}

// MarkComplete flags the source as fully ingested at now.
func (p *SyncProgress) MarkComplete(now time.Time) {
	p.IsComplete = true
	p.MarkChecked(now)
}

// MarkChecked records a re-check at now.
func (p *SyncProgress) MarkChecked(now time.Time) {
	t := now
	p.LastCheckDate = &t
}

// SetTotalPages records a freshly observed total page count.
func (p *SyncProgress) SetTotalPages(total int) {
	v := total
	p.TotalPagesKnown = &v
}

// Advance moves LastProcessedPage forward. Lower pages are ignored so the
// value never decreases within a run.
func (p *SyncProgress) Advance(page int) {
	if page > p.LastProcessedPage {
		p.LastProcessedPage = page
	}
}

// Clear returns the progress to its zero state, keeping the source ID.
func (p *SyncProgress) Clear() {
	p.LastProcessedPage = 0
	p.TotalPagesKnown = nil
	p.IsComplete = false
	p.LastCheckDate = nil
}

// Clone returns a deep copy of the progress.
func (p *SyncProgress) Clone() *SyncProgress {
	if p == nil {
		return nil
	}
	c := *p
	if p.TotalPagesKnown != nil {
		v := *p.TotalPagesKnown
		c.TotalPagesKnown = &v
	}
	if p.LastCheckDate != nil {
		t := *p.LastCheckDate
		c.LastCheckDate = &t
	}
	return &c
}
