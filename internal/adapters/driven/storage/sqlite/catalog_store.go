package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/custodia-labs/cardsync/internal/core/domain"
	"github.com/custodia-labs/cardsync/internal/core/ports/driven"
)

// Ensure CatalogStore implements the interfaces.
var (
	_ driven.CatalogSink   = (*CatalogStore)(nil)
	_ driven.CatalogReader = (*CatalogStore)(nil)
)

// CatalogStore persists normalised cards in the cards table.
type CatalogStore struct {
	store *Store
}

// Emit upserts a card keyed on source, set code, card number and name.
func (s *CatalogStore) Emit(ctx context.Context, card domain.UnifiedCard) error {
	if card.Name == "" || !card.Source.Valid() {
		return domain.ErrInvalidInput
	}

	attrs := card.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}
	attrsJSON, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("marshalling attributes: %w", err)
	}

	var price any
	if card.Price != nil {
		price = card.Price.String()
	}
	var cost any
	if card.Cost != nil {
		cost = *card.Cost
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO cards (source_id, set_code, card_number, name, rarity, image_url, description,
			cost, condition, price, expansion, attributes, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_id, set_code, card_number, name) DO UPDATE SET
			rarity = excluded.rarity,
			image_url = excluded.image_url,
			description = excluded.description,
			cost = excluded.cost,
			condition = excluded.condition,
			price = excluded.price,
			expansion = excluded.expansion,
			attributes = excluded.attributes,
			updated_at = excluded.updated_at
	`, string(card.Source), card.SetCode, card.CardNumber, card.Name, string(card.Rarity),
		card.ImageURL, card.Description, cost, string(card.Condition), price,
		card.Expansion, string(attrsJSON), formatTime(s.store.now()))
	if err != nil {
		return fmt.Errorf("saving card: %w", err)
	}
	return nil
}

// DeleteAll removes every card of a source.
func (s *CatalogStore) DeleteAll(ctx context.Context, sourceID domain.SourceID) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM cards WHERE source_id = ?", string(sourceID))
	if err != nil {
		return fmt.Errorf("deleting cards: %w", err)
	}
	return nil
}

// Count returns the number of stored cards for a source.
func (s *CatalogStore) Count(ctx context.Context, sourceID domain.SourceID) (int, error) {
	var n int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM cards WHERE source_id = ?", string(sourceID)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting cards: %w", err)
	}
	return n, nil
}

// ListCards returns up to limit cards ordered by set code, card number and name.
// A non-positive limit returns every card.
func (s *CatalogStore) ListCards(ctx context.Context, sourceID domain.SourceID, limit int) ([]domain.UnifiedCard, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT source_id, set_code, card_number, name, rarity, image_url, description,
			cost, condition, price, expansion, attributes
		FROM cards
		WHERE source_id = ?
		ORDER BY set_code, card_number, name
		LIMIT ?
	`, string(sourceID), limit)
	if err != nil {
		return nil, fmt.Errorf("querying cards: %w", err)
	}
	defer rows.Close()

	var cards []domain.UnifiedCard //nolint:prealloc // size unknown from query
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cards: %w", err)
	}
	return cards, nil
}

func scanCard(rows *sql.Rows) (*domain.UnifiedCard, error) {
	var (
		card                  domain.UnifiedCard
		source, rarity, cond  string
		imageURL, description sql.NullString
		price                 sql.NullString
		cost                  sql.NullInt64
		attrsJSON             string
	)
	if err := rows.Scan(&source, &card.SetCode, &card.CardNumber, &card.Name, &rarity,
		&imageURL, &description, &cost, &cond, &price, &card.Expansion, &attrsJSON); err != nil {
		return nil, fmt.Errorf("scanning card: %w", err)
	}

	card.Source = domain.SourceID(source)
	card.Rarity = domain.Rarity(rarity)
	card.Condition = domain.Condition(cond)
	if imageURL.Valid {
		card.ImageURL = &imageURL.String
	}
	if description.Valid {
		card.Description = &description.String
	}
	if cost.Valid {
		card.Cost = domain.IntPtr(int(cost.Int64))
	}
	if price.Valid {
		d, err := decimal.NewFromString(price.String)
		if err != nil {
			return nil, fmt.Errorf("parsing price %q: %w", price.String, err)
		}
		card.Price = &d
	}
	if err := json.Unmarshal([]byte(attrsJSON), &card.Attributes); err != nil {
		return nil, fmt.Errorf("unmarshalling attributes: %w", err)
	}
	if len(card.Attributes) == 0 {
		card.Attributes = nil
	}
	return &card, nil
}
