package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

func cardNames(cards []domain.UnifiedCard) []string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.Name
	}
	return names
}

func TestNewBulkFetcher_Defaults(t *testing.T) {
	b := NewBulkFetcher(newMockRegistry())

	assert.Equal(t, DefaultBulkInterval, b.interval)
	assert.Equal(t, []domain.SourceID{domain.SourceOnePiece}, b.allowed)
}

func TestBulkFetcher_FetchBounded(t *testing.T) {
	t.Run("stops at max pages", func(t *testing.T) {
		provider := newMockProvider(domain.SourceOnePiece).
			page(1, 10, "Luffy", "Zoro").
			page(2, 10, "Nami").
			page(3, 10, "Usopp")
		b := NewBulkFetcher(newMockRegistry(provider), WithBulkInterval(0))

		cards, err := b.FetchBounded(context.Background(), domain.SourceOnePiece, 2)

		require.NoError(t, err)
		assert.Equal(t, []string{"Luffy", "Zoro", "Nami"}, cardNames(cards))
		assert.Equal(t, []int{1, 2}, provider.requested())
		for _, c := range provider.cursors {
			assert.Equal(t, 2, c.Ceiling)
		}
	})

	t.Run("stops on empty page", func(t *testing.T) {
		provider := newMockProvider(domain.SourceOnePiece).
			page(1, 10, "Luffy").
			page(2, 10)
		b := NewBulkFetcher(newMockRegistry(provider), WithBulkInterval(0))

		cards, err := b.FetchBounded(context.Background(), domain.SourceOnePiece, 5)

		require.NoError(t, err)
		assert.Len(t, cards, 1)
		assert.Equal(t, []int{1, 2}, provider.requested())
	})

	t.Run("stops when exhausted", func(t *testing.T) {
		provider := newMockProvider(domain.SourceOnePiece).page(1, 1, "Luffy")
		b := NewBulkFetcher(newMockRegistry(provider), WithBulkInterval(0))

		cards, err := b.FetchBounded(context.Background(), domain.SourceOnePiece, 5)

		require.NoError(t, err)
		assert.Len(t, cards, 1)
		assert.Equal(t, []int{1}, provider.requested())
	})

	t.Run("skips malformed records", func(t *testing.T) {
		provider := newMockProvider(domain.SourceOnePiece).page(1, 1, "Luffy", badRecord, "Zoro")
		b := NewBulkFetcher(newMockRegistry(provider), WithBulkInterval(0))

		cards, err := b.FetchBounded(context.Background(), domain.SourceOnePiece, 1)

		require.NoError(t, err)
		assert.Equal(t, []string{"Luffy", "Zoro"}, cardNames(cards))
	})

	t.Run("fetch error returns partial cards", func(t *testing.T) {
		provider := newMockProvider(domain.SourceOnePiece).
			page(1, 3, "Luffy").
			fail(2, transportErr())
		b := NewBulkFetcher(newMockRegistry(provider), WithBulkInterval(0))

		cards, err := b.FetchBounded(context.Background(), domain.SourceOnePiece, 3)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrTransport)
		assert.Contains(t, err.Error(), "fetch page 2")
		assert.Len(t, cards, 1)
	})

	t.Run("paces requests", func(t *testing.T) {
		provider := newMockProvider(domain.SourceOnePiece).
			page(1, 3, "a").
			page(2, 3, "b").
			page(3, 3, "c")
		b := NewBulkFetcher(newMockRegistry(provider), WithBulkInterval(20*time.Millisecond))

		start := time.Now()
		cards, err := b.FetchBounded(context.Background(), domain.SourceOnePiece, 3)

		require.NoError(t, err)
		assert.Len(t, cards, 3)
		assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	})

	t.Run("cancelled context", func(t *testing.T) {
		provider := newMockProvider(domain.SourceOnePiece).page(1, 3, "a")
		b := NewBulkFetcher(newMockRegistry(provider), WithBulkInterval(time.Hour))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := b.FetchBounded(ctx, domain.SourceOnePiece, 3)

		assert.Error(t, err)
		assert.Empty(t, provider.requested())
	})
}

func TestBulkFetcher_FetchBounded_Rejects(t *testing.T) {
	pokemon := newMockProvider(domain.SourcePokemon).page(1, 1, "Pikachu")
	b := NewBulkFetcher(newMockRegistry(pokemon), WithBulkInterval(0))
	ctx := context.Background()

	t.Run("non-positive page count", func(t *testing.T) {
		_, err := b.FetchBounded(ctx, domain.SourceOnePiece, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("source not allowed", func(t *testing.T) {
		_, err := b.FetchBounded(ctx, domain.SourcePokemon, 1)
		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
		assert.Empty(t, pokemon.requested())
	})

	t.Run("allowed but not registered", func(t *testing.T) {
		_, err := b.FetchBounded(ctx, domain.SourceOnePiece, 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("custom allow list", func(t *testing.T) {
		custom := NewBulkFetcher(newMockRegistry(pokemon), WithBulkInterval(0), WithBulkSources(domain.SourcePokemon))
		cards, err := custom.FetchBounded(ctx, domain.SourcePokemon, 1)
		require.NoError(t, err)
		assert.Len(t, cards, 1)
	})
}
