package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestParseCardsURI(t *testing.T) {
	tests := []struct {
		name       string
		uri        string
		wantSource string
		wantLimit  int
		wantOK     bool
	}{
		{name: "plain", uri: "cardsync://sources/pokemon/cards", wantSource: "pokemon", wantLimit: 100, wantOK: true},
		{name: "with limit", uri: "cardsync://sources/magic/cards?limit=5", wantSource: "magic", wantLimit: 5, wantOK: true},
		{name: "zero limit means all", uri: "cardsync://sources/c/cards?limit=0", wantSource: "c", wantLimit: 0, wantOK: true},
		{name: "other query ignored", uri: "cardsync://sources/magic/cards?sort=name", wantSource: "magic", wantLimit: 100, wantOK: true},
		{name: "bad limit", uri: "cardsync://sources/magic/cards?limit=lots", wantOK: false},
		{name: "wrong scheme", uri: "file://sources/magic/cards", wantOK: false},
		{name: "missing suffix", uri: "cardsync://sources/magic", wantOK: false},
		{name: "empty source", uri: "cardsync://sources//cards", wantOK: false},
		{name: "nested path", uri: "cardsync://sources/a/b/cards", wantOK: false},
		{name: "empty", uri: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, limit, ok := parseCardsURI(tt.uri)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantSource, source)
				assert.Equal(t, tt.wantLimit, limit)
			}
		})
	}
}

func TestServer_handleProgressResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists every source", func(t *testing.T) {
		total := 12
		checked := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
		orch := &mockSyncOrchestrator{progress: map[domain.SourceID]*domain.SyncProgress{
			domain.SourceMagic: {
				SourceID:          domain.SourceMagic,
				LastProcessedPage: 12,
				TotalPagesKnown:   &total,
				IsComplete:        true,
				LastCheckDate:     &checked,
			},
		}}
		server, err := NewServer(&Ports{Sync: orch})
		require.NoError(t, err)

		result, err := server.handleProgressResource(ctx, readRequest("cardsync://progress"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		text := result.Contents[0].Text
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, text, `"source": "pokemon"`)
		assert.Contains(t, text, `"source": "onepiece"`)
		assert.Contains(t, text, `"total_pages": 12`)
		assert.Contains(t, text, `"complete": true`)
		assert.Contains(t, text, `"last_check": "2026-04-02T09:30:00Z"`)
	})

	t.Run("progress error", func(t *testing.T) {
		server, err := NewServer(&Ports{Sync: &mockSyncOrchestrator{err: errors.New("locked")}})
		require.NoError(t, err)

		_, err = server.handleProgressResource(ctx, readRequest("cardsync://progress"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "locked")
	})
}

func TestServer_handleCardsResource(t *testing.T) {
	ctx := context.Background()
	price := decimal.RequireFromString("1.5")

	t.Run("no catalog returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Sync: &mockSyncOrchestrator{}})
		require.NoError(t, err)

		_, err = server.handleCardsResource(ctx, readRequest("cardsync://sources/pokemon/cards"))

		require.Error(t, err)
	})

	t.Run("unknown source returns not found", func(t *testing.T) {
		catalog := &mockCatalogReader{}
		server, err := NewServer(&Ports{Sync: &mockSyncOrchestrator{}, Catalog: catalog})
		require.NoError(t, err)

		_, err = server.handleCardsResource(ctx, readRequest("cardsync://sources/yugioh/cards"))

		require.Error(t, err)
		assert.Empty(t, catalog.lastID)
	})

	t.Run("lists cards", func(t *testing.T) {
		catalog := &mockCatalogReader{cards: []domain.UnifiedCard{{
			Name:       "Pikachu",
			Source:     domain.SourcePokemon,
			SetCode:    "base1",
			CardNumber: "58",
			Rarity:     domain.RarityCommon,
			Cost:       domain.IntPtr(1),
			Condition:  domain.DefaultCondition,
			Price:      &price,
			Expansion:  "Base",
			Attributes: map[string]string{"hp": "40"},
		}}}
		server, err := NewServer(&Ports{Sync: &mockSyncOrchestrator{}, Catalog: catalog})
		require.NoError(t, err)

		result, err := server.handleCardsResource(ctx, readRequest("cardsync://sources/A/cards?limit=10"))

		require.NoError(t, err)
		assert.Equal(t, domain.SourcePokemon, catalog.lastID)
		assert.Equal(t, 10, catalog.lastLimit)
		require.Len(t, result.Contents, 1)
		text := result.Contents[0].Text
		assert.Contains(t, text, `"name": "Pikachu"`)
		assert.Contains(t, text, `"price": "1.50"`)
		assert.Contains(t, text, `"cost": 1`)
		assert.Contains(t, text, `"hp": "40"`)
		assert.NotContains(t, text, "image_url")
	})

	t.Run("catalog error", func(t *testing.T) {
		catalog := &mockCatalogReader{err: errors.New("disk")}
		server, err := NewServer(&Ports{Sync: &mockSyncOrchestrator{}, Catalog: catalog})
		require.NoError(t, err)

		_, err = server.handleCardsResource(ctx, readRequest("cardsync://sources/magic/cards"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing cards")
	})
}
