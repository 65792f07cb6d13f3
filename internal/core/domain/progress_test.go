package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSyncProgress(t *testing.T) {
	p := NewSyncProgress(SourceMagic)

	assert.Equal(t, SourceMagic, p.SourceID)
	assert.Equal(t, 0, p.LastProcessedPage)
	assert.Nil(t, p.TotalPagesKnown)
	assert.False(t, p.IsComplete)
	assert.Nil(t, p.LastCheckDate)
	assert.Equal(t, 1, p.NextPage())
}

func TestSyncProgress_NeedsRecheck(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("nil check date is due", func(t *testing.T) {
		p := &SyncProgress{IsComplete: true}
		assert.True(t, p.NeedsRecheck(now, DefaultRecheckInterval))
	})

	t.Run("recent check is not due", func(t *testing.T) {
		p := &SyncProgress{IsComplete: true}
		p.MarkChecked(now.Add(-time.Hour))
		assert.False(t, p.NeedsRecheck(now, DefaultRecheckInterval))
	})

	t.Run("old check is due", func(t *testing.T) {
		p := &SyncProgress{IsComplete: true}
		p.MarkChecked(now.Add(-7 * time.Hour))
		assert.True(t, p.NeedsRecheck(now, DefaultRecheckInterval))
	})
}

func TestSyncProgress_MarkComplete(t *testing.T) {
	now := time.Now()
	p := NewSyncProgress(SourcePokemon)

	p.MarkComplete(now)

	assert.True(t, p.IsComplete)
	require.NotNil(t, p.LastCheckDate)
	assert.Equal(t, now, *p.LastCheckDate)
}

func TestSyncProgress_Advance(t *testing.T) {
	p := NewSyncProgress(SourcePokemon)

	p.Advance(3)
	assert.Equal(t, 3, p.LastProcessedPage)

	p.Advance(2)
	assert.Equal(t, 3, p.LastProcessedPage, "page never moves backwards")
}

func TestSyncProgress_ClearAndClone(t *testing.T) {
	p := NewSyncProgress(SourceOnePiece)
	p.Advance(5)
	p.SetTotalPages(9)
	p.MarkComplete(time.Now())

	c := p.Clone()
	p.Clear()

	assert.Equal(t, 0, p.LastProcessedPage)
	assert.Nil(t, p.TotalPagesKnown)
	assert.False(t, p.IsComplete)
	assert.Nil(t, p.LastCheckDate)
	assert.Equal(t, SourceOnePiece, p.SourceID)

	assert.Equal(t, 5, c.LastProcessedPage)
	require.NotNil(t, c.TotalPagesKnown)
	assert.Equal(t, 9, *c.TotalPagesKnown)
	assert.True(t, c.IsComplete)

	var nilProgress *SyncProgress
	assert.Nil(t, nilProgress.Clone())
}
