package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/cardsync/internal/core/domain"
	"github.com/custodia-labs/cardsync/internal/core/ports/driven"
)

// progressStore implements driven.ProgressStore.
type progressStore struct {
	store *Store
}

var _ driven.ProgressStore = (*progressStore)(nil)

const progressColumns = `source_id, last_processed_page, total_pages_known, is_complete, last_updated, last_check_date`

// GetOrCreate returns stored progress, inserting a zero record if absent.
func (s *progressStore) GetOrCreate(ctx context.Context, sourceID domain.SourceID) (*domain.SyncProgress, error) {
	if !sourceID.Valid() {
		return nil, domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_progress (source_id, last_updated) VALUES (?, ?)
		ON CONFLICT(source_id) DO NOTHING
	`, string(sourceID), formatTime(s.store.now()))
	if err != nil {
		return nil, fmt.Errorf("creating progress: %w", err)
	}

	return s.Get(ctx, sourceID)
}

// Get retrieves progress for a source.
func (s *progressStore) Get(ctx context.Context, sourceID domain.SourceID) (*domain.SyncProgress, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+progressColumns+" FROM sync_progress WHERE source_id = ?", string(sourceID))

	p, err := scanProgress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Save upserts progress and stamps LastUpdated.
func (s *progressStore) Save(ctx context.Context, progress *domain.SyncProgress) error {
	if progress == nil || !progress.SourceID.Valid() {
		return domain.ErrInvalidInput
	}

	updated := s.store.now()
	var total any
	if progress.TotalPagesKnown != nil {
		total = *progress.TotalPagesKnown
	}
	var checked any
	if progress.LastCheckDate != nil {
		checked = formatTime(*progress.LastCheckDate)
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_progress (`+progressColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_id) DO UPDATE SET
			last_processed_page = excluded.last_processed_page,
			total_pages_known = excluded.total_pages_known,
			is_complete = excluded.is_complete,
			last_updated = excluded.last_updated,
			last_check_date = excluded.last_check_date
	`, string(progress.SourceID), progress.LastProcessedPage, total,
		boolToInt(progress.IsComplete), formatTime(updated), checked)
	if err != nil {
		return fmt.Errorf("saving progress: %w", err)
	}

	progress.LastUpdated = updated
	return nil
}

// Reset returns progress for a source to the zero state.
func (s *progressStore) Reset(ctx context.Context, sourceID domain.SourceID) error {
	return s.Save(ctx, domain.NewSyncProgress(sourceID))
}

// List returns every stored record ordered by source ID.
func (s *progressStore) List(ctx context.Context) ([]domain.SyncProgress, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+progressColumns+" FROM sync_progress ORDER BY source_id")
	if err != nil {
		return nil, fmt.Errorf("querying progress: %w", err)
	}
	defer rows.Close()

	var out []domain.SyncProgress //nolint:prealloc // size unknown from query
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating progress: %w", err)
	}
	return out, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgress(row rowScanner) (*domain.SyncProgress, error) {
	var (
		p         domain.SyncProgress
		sourceID  string
		total     sql.NullInt64
		complete  int
		updated   sql.NullString
		lastCheck sql.NullString
	)
	if err := row.Scan(&sourceID, &p.LastProcessedPage, &total, &complete, &updated, &lastCheck); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning progress: %w", err)
	}

	p.SourceID = domain.SourceID(sourceID)
	if total.Valid {
		p.SetTotalPages(int(total.Int64))
	}
	p.IsComplete = complete == 1
	p.LastUpdated = parseNullableTime(updated)
	if t := parseNullableTime(lastCheck); !t.IsZero() {
		p.LastCheckDate = &t
	}
	return &p, nil
}
