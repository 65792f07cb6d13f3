package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

func sqlString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func fixedClock(store *Store, at time.Time) {
	store.now = func() time.Time { return at }
}

func TestProgressStore_GetOrCreate(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fixedClock(store, at)
	progress := store.ProgressStore()

	p, err := progress.GetOrCreate(ctx, domain.SourcePokemon)
	require.NoError(t, err)
	assert.Equal(t, domain.SourcePokemon, p.SourceID)
	assert.Zero(t, p.LastProcessedPage)
	assert.Nil(t, p.TotalPagesKnown)
	assert.False(t, p.IsComplete)
	assert.Nil(t, p.LastCheckDate)
	assert.True(t, at.Equal(p.LastUpdated))

	// The zero record is persisted
	got, err := progress.Get(ctx, domain.SourcePokemon)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestProgressStore_GetOrCreate_KeepsExisting(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	progress := store.ProgressStore()

	p := domain.NewSyncProgress(domain.SourceMagic)
	p.Advance(4)
	require.NoError(t, progress.Save(ctx, p))

	got, err := progress.GetOrCreate(ctx, domain.SourceMagic)
	require.NoError(t, err)
	assert.Equal(t, 4, got.LastProcessedPage)
}

func TestProgressStore_GetOrCreate_InvalidSource(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.ProgressStore().GetOrCreate(context.Background(), "yugioh")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProgressStore_Get_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.ProgressStore().Get(context.Background(), domain.SourceOnePiece)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProgressStore_SaveRoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	saved := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	fixedClock(store, saved)
	progress := store.ProgressStore()

	checked := time.Date(2026, 3, 1, 12, 29, 59, 250_000_000, time.UTC)
	p := domain.NewSyncProgress(domain.SourceOnePiece)
	p.Advance(7)
	p.SetTotalPages(12)
	p.MarkComplete(checked)

	require.NoError(t, progress.Save(ctx, p))
	assert.True(t, saved.Equal(p.LastUpdated), "Save stamps the argument")

	got, err := progress.Get(ctx, domain.SourceOnePiece)
	require.NoError(t, err)
	assert.Equal(t, 7, got.LastProcessedPage)
	require.NotNil(t, got.TotalPagesKnown)
	assert.Equal(t, 12, *got.TotalPagesKnown)
	assert.True(t, got.IsComplete)
	require.NotNil(t, got.LastCheckDate)
	assert.True(t, checked.Equal(*got.LastCheckDate))
	assert.True(t, saved.Equal(got.LastUpdated))
}

func TestProgressStore_Save_Invalid(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	progress := store.ProgressStore()

	assert.ErrorIs(t, progress.Save(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, progress.Save(context.Background(), domain.NewSyncProgress("")), domain.ErrInvalidInput)
}

func TestProgressStore_Reset(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	progress := store.ProgressStore()

	p := domain.NewSyncProgress(domain.SourcePokemon)
	p.Advance(3)
	p.SetTotalPages(3)
	p.MarkComplete(time.Now())
	require.NoError(t, progress.Save(ctx, p))

	require.NoError(t, progress.Reset(ctx, domain.SourcePokemon))

	got, err := progress.Get(ctx, domain.SourcePokemon)
	require.NoError(t, err)
	assert.Zero(t, got.LastProcessedPage)
	assert.Nil(t, got.TotalPagesKnown)
	assert.False(t, got.IsComplete)
	assert.Nil(t, got.LastCheckDate)
}

func TestProgressStore_List(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	progress := store.ProgressStore()

	empty, err := progress.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, id := range []domain.SourceID{domain.SourcePokemon, domain.SourceMagic, domain.SourceOnePiece} {
		_, err := progress.GetOrCreate(ctx, id)
		require.NoError(t, err)
	}

	all, err := progress.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, domain.SourceMagic, all[0].SourceID)
	assert.Equal(t, domain.SourceOnePiece, all[1].SourceID)
	assert.Equal(t, domain.SourcePokemon, all[2].SourceID)
}

func TestProgressStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store1, err := NewStore(dir)
	require.NoError(t, err)
	p := domain.NewSyncProgress(domain.SourceMagic)
	p.Advance(42)
	require.NoError(t, store1.ProgressStore().Save(ctx, p))
	require.NoError(t, store1.Close())

	store2, err := NewStore(dir)
	require.NoError(t, err)
	defer store2.Close()

	got, err := store2.ProgressStore().Get(ctx, domain.SourceMagic)
	require.NoError(t, err)
	assert.Equal(t, 42, got.LastProcessedPage)
	assert.Equal(t, 43, got.NextPage())
}
