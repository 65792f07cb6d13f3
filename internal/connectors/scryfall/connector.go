package scryfall

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/custodia-labs/cardsync/internal/connectors/httpapi"
	"github.com/custodia-labs/cardsync/internal/core/domain"
	"github.com/custodia-labs/cardsync/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.Provider = (*Connector)(nil)

// Connector fetches and parses Scryfall search pages.
type Connector struct {
	cfg    *Config
	client *httpapi.Client
}

// New creates a Scryfall connector.
func New(cfg *Config, opts ...httpapi.Option) *Connector {
	client := httpapi.New(httpapi.Config{Timeout: cfg.Timeout}, opts...)
	return &Connector{cfg: cfg, client: client}
}

// SourceID returns the Magic source.
func (c *Connector) SourceID() domain.SourceID {
	return domain.SourceMagic
}

// InitialCursor starts at page 1 for a complete source, otherwise resumes.
// The search query travels in the cursor token.
func (c *Connector) InitialCursor(progress *domain.SyncProgress, opts domain.SyncOptions) driven.Cursor {
	page := progress.NextPage()
	if progress.IsComplete {
		page = 1
	}
	return driven.Cursor{Page: page, Ceiling: opts.PageCeiling, Token: c.cfg.Query}
}

// FetchPage requests one page of search results.
func (c *Connector) FetchPage(ctx context.Context, cursor driven.Cursor) (*driven.RawPage, error) {
	var resp searchResponse
	if err := c.client.GetJSON(ctx, c.pageURL(cursor), &resp); err != nil {
		return nil, fmt.Errorf("scryfall: fetch page %d: %w", cursor.Page, err)
	}

	records := make([]driven.RawRecord, len(resp.Data))
	for i, raw := range resp.Data {
		records[i] = driven.RawRecord{Index: i, Data: raw}
	}

	return &driven.RawPage{
		Cursor:  cursor,
		Records: records,
		Pagination: driven.PaginationInfo{
			TotalPages:   TotalPages(resp.TotalCards),
			TotalRecords: resp.TotalCards,
			HasMore:      resp.HasMore,
		},
	}, nil
}

func (c *Connector) pageURL(cursor driven.Cursor) string {
	query := cursor.Token
	if query == "" {
		query = c.cfg.Query
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("page", strconv.Itoa(cursor.Page))
	return c.cfg.BaseURL + "/cards/search?" + q.Encode()
}

// TotalPages returns ceil(totalCards / 175).
func TotalPages(totalCards int) int {
	if totalCards <= 0 {
		return 0
	}
	return (totalCards + PageSize - 1) / PageSize
}

// ParseRecord converts one Scryfall card object into a UnifiedCard.
func (c *Connector) ParseRecord(record driven.RawRecord) (domain.UnifiedCard, error) {
	var raw card
	if err := json.Unmarshal(record.Data, &raw); err != nil {
		return domain.UnifiedCard{}, domain.NewParseError(domain.SourceMagic, fmt.Sprintf("record %d", record.Index), err)
	}
	if strings.TrimSpace(raw.Name) == "" {
		return domain.UnifiedCard{}, domain.NewParseError(domain.SourceMagic, fmt.Sprintf("record %d: missing name", record.Index), nil)
	}

	out := domain.UnifiedCard{
		Name:        raw.Name,
		Source:      domain.SourceMagic,
		SetCode:     raw.Set,
		CardNumber:  raw.CollectorNumber,
		Rarity:      MapRarity(raw.Rarity),
		ImageURL:    domain.StringPtr(imageURL(raw)),
		Description: domain.StringPtr(oracleText(raw)),
		Condition:   domain.DefaultCondition,
		Price:       parsePrice(raw.Prices.USD),
		Expansion:   raw.SetName,
		Attributes:  attributes(raw),
	}
	if raw.CMC != nil {
		out.Cost = domain.IntPtr(int(math.Round(*raw.CMC)))
	}
	return out, nil
}

// IsExhausted reports whether Scryfall said there are no more pages or the
// caller's ceiling was reached.
func (c *Connector) IsExhausted(info driven.PaginationInfo, cursor driven.Cursor) bool {
	if cursor.Ceiling > 0 && cursor.Page >= cursor.Ceiling {
		return true
	}
	return !info.HasMore
}

// Advance moves to the next page, keeping the query.
func (c *Connector) Advance(cursor driven.Cursor, _ driven.PaginationInfo) driven.Cursor {
	cursor.Page++
	return cursor
}

// imageURL prefers the card's own normal image, then the first face's.
func imageURL(raw card) string {
	if raw.ImageURIs != nil && raw.ImageURIs.Normal != "" {
		return raw.ImageURIs.Normal
	}
	for _, face := range raw.CardFaces {
		if face.ImageURIs != nil && face.ImageURIs.Normal != "" {
			return face.ImageURIs.Normal
		}
	}
	return ""
}

// oracleText joins face texts for multi-faced cards.
func oracleText(raw card) string {
	if raw.OracleText != "" {
		return raw.OracleText
	}
	texts := make([]string, 0, len(raw.CardFaces))
	for _, face := range raw.CardFaces {
		if face.OracleText != "" {
			texts = append(texts, face.OracleText)
		}
	}
	return strings.Join(texts, "\n//\n")
}

func parsePrice(v *string) *decimal.Decimal {
	if v == nil || *v == "" {
		return nil
	}
	d, err := decimal.NewFromString(*v)
	if err != nil {
		return nil
	}
	return &d
}

func attributes(raw card) map[string]string {
	attrs := make(map[string]string)
	if raw.TypeLine != "" {
		attrs["type_line"] = raw.TypeLine
	}
	if raw.ManaCost != "" {
		attrs["mana_cost"] = raw.ManaCost
	}
	if len(raw.Colors) > 0 {
		attrs["colors"] = strings.Join(raw.Colors, ",")
	}
	if raw.Artist != "" {
		attrs["artist"] = raw.Artist
	}
	if raw.Prices.USDFoil != nil && *raw.Prices.USDFoil != "" {
		attrs["usd_foil"] = *raw.Prices.USDFoil
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}
