package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

func testCard(source domain.SourceID, set, number, name string) domain.UnifiedCard {
	return domain.UnifiedCard{
		Name:       name,
		Source:     source,
		SetCode:    set,
		CardNumber: number,
		Rarity:     domain.DefaultRarity,
		Condition:  domain.DefaultCondition,
	}
}

func TestCatalogStore_EmitUpserts(t *testing.T) {
	store := NewCatalogStore()
	ctx := context.Background()

	card := testCard(domain.SourcePokemon, "base1", "58", "Pikachu")
	require.NoError(t, store.Emit(ctx, card))

	// Same key again replaces the card
	card.Description = domain.StringPtr("Electric mouse")
	require.NoError(t, store.Emit(ctx, card))

	n, err := store.Count(ctx, domain.SourcePokemon)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	cards, err := store.ListCards(ctx, domain.SourcePokemon, 0)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	require.NotNil(t, cards[0].Description)
	assert.Equal(t, "Electric mouse", *cards[0].Description)
}

func TestCatalogStore_EmitInvalid(t *testing.T) {
	store := NewCatalogStore()

	assert.ErrorIs(t, store.Emit(context.Background(), testCard(domain.SourcePokemon, "s", "1", "")), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Emit(context.Background(), testCard("yugioh", "s", "1", "x")), domain.ErrInvalidInput)
}

func TestCatalogStore_DeleteAllIsPerSource(t *testing.T) {
	store := NewCatalogStore()
	ctx := context.Background()

	require.NoError(t, store.Emit(ctx, testCard(domain.SourceMagic, "neo", "1", "Forest")))
	require.NoError(t, store.Emit(ctx, testCard(domain.SourceOnePiece, "OP01", "OP01-001", "Zoro")))

	require.NoError(t, store.DeleteAll(ctx, domain.SourceMagic))

	n, err := store.Count(ctx, domain.SourceMagic)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = store.Count(ctx, domain.SourceOnePiece)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCatalogStore_ListCardsOrderAndLimit(t *testing.T) {
	store := NewCatalogStore()
	ctx := context.Background()

	require.NoError(t, store.Emit(ctx, testCard(domain.SourceOnePiece, "OP02", "OP02-001", "Edward Newgate")))
	require.NoError(t, store.Emit(ctx, testCard(domain.SourceOnePiece, "OP01", "OP01-002", "Trafalgar Law")))
	require.NoError(t, store.Emit(ctx, testCard(domain.SourceOnePiece, "OP01", "OP01-001", "Roronoa Zoro")))

	cards, err := store.ListCards(ctx, domain.SourceOnePiece, 0)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, "OP01-001", cards[0].CardNumber)
	assert.Equal(t, "OP01-002", cards[1].CardNumber)
	assert.Equal(t, "OP02-001", cards[2].CardNumber)

	cards, err = store.ListCards(ctx, domain.SourceOnePiece, 2)
	require.NoError(t, err)
	assert.Len(t, cards, 2)

	cards, err = store.ListCards(ctx, domain.SourcePokemon, 10)
	require.NoError(t, err)
	assert.Empty(t, cards)
}
