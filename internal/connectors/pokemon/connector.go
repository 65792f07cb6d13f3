package pokemon

import (
	"context"
	"fmt"
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

// Connector fetches and parses Pokemon TCG API pages.
type Connector struct {
	cfg    *Config
	client *httpapi.Client
}

// New creates a Pokemon connector.
func New(cfg *Config, opts ...httpapi.Option) *Connector {
	client := httpapi.New(httpapi.Config{
		Timeout:        cfg.Timeout,
		Headers:        map[string]string{HeaderAPIKey: cfg.APIKey},
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
	}, opts...)
	return &Connector{cfg: cfg, client: client}
}

// SourceID returns the Pokemon source.
func (c *Connector) SourceID() domain.SourceID {
	return domain.SourcePokemon
}

// InitialCursor starts at page 1 for a complete source, otherwise resumes.
func (c *Connector) InitialCursor(progress *domain.SyncProgress, opts domain.SyncOptions) driven.Cursor {
	page := progress.NextPage()
	if progress.IsComplete {
		page = 1
	}
	return driven.Cursor{Page: page, Ceiling: opts.PageCeiling}
}

// FetchPage requests one page of cards.
func (c *Connector) FetchPage(ctx context.Context, cursor driven.Cursor) (*driven.RawPage, error) {
	var resp pageResponse
	if err := c.client.GetJSON(ctx, c.pageURL(cursor.Page), &resp); err != nil {
		return nil, fmt.Errorf("pokemon: fetch page %d: %w", cursor.Page, err)
	}

	pageSize := resp.PageSize
	if pageSize <= 0 {
		pageSize = c.cfg.PageSize
	}

	records := make([]driven.RawRecord, len(resp.Data))
	for i, raw := range resp.Data {
		records[i] = driven.RawRecord{Index: i, Data: raw}
	}

	return &driven.RawPage{
		Cursor:  cursor,
		Records: records,
		Pagination: driven.PaginationInfo{
			TotalPages:   TotalPages(resp.TotalCount, pageSize),
			TotalRecords: resp.TotalCount,
			HasMore:      cursor.Page < TotalPages(resp.TotalCount, pageSize),
		},
	}, nil
}

func (c *Connector) pageURL(page int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(c.cfg.PageSize))
	q.Set("orderBy", OrderBy)
	return c.cfg.BaseURL + "/v2/cards?" + q.Encode()
}

// TotalPages returns ceil(totalCount / pageSize).
func TotalPages(totalCount, pageSize int) int {
	if pageSize <= 0 || totalCount <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}

// ParseRecord converts one card object into a UnifiedCard.
func (c *Connector) ParseRecord(record driven.RawRecord) (domain.UnifiedCard, error) {
	var raw card
	if err := json.Unmarshal(record.Data, &raw); err != nil {
		return domain.UnifiedCard{}, domain.NewParseError(domain.SourcePokemon, fmt.Sprintf("record %d", record.Index), err)
	}
	if strings.TrimSpace(raw.Name) == "" {
		return domain.UnifiedCard{}, domain.NewParseError(domain.SourcePokemon, fmt.Sprintf("record %d: missing name", record.Index), nil)
	}

	out := domain.UnifiedCard{
		Name:        raw.Name,
		Source:      domain.SourcePokemon,
		SetCode:     raw.Set.ID,
		CardNumber:  raw.Number,
		Rarity:      MapRarity(raw.Rarity),
		ImageURL:    domain.StringPtr(firstNonEmpty(raw.Images.Large, raw.Images.Small)),
		Description: domain.StringPtr(description(raw)),
		Cost:        energyCost(raw.Attacks),
		Condition:   domain.DefaultCondition,
		Price:       marketPrice(raw.TCGPlayer),
		Expansion:   raw.Set.Name,
		Attributes:  attributes(raw),
	}
	return out, nil
}

// IsExhausted reports whether the cursor reached the last page or the
// caller's ceiling.
func (c *Connector) IsExhausted(info driven.PaginationInfo, cursor driven.Cursor) bool {
	if cursor.Ceiling > 0 && cursor.Page >= cursor.Ceiling {
		return true
	}
	return cursor.Page >= info.TotalPages
}

// Advance moves to the next page.
func (c *Connector) Advance(cursor driven.Cursor, _ driven.PaginationInfo) driven.Cursor {
	cursor.Page++
	return cursor
}

func description(raw card) string {
	if raw.FlavorText != "" {
		return raw.FlavorText
	}
	return strings.Join(raw.Rules, "\n")
}

// energyCost returns the highest converted energy cost among the attacks.
func energyCost(attacks []attack) *int {
	if len(attacks) == 0 {
		return nil
	}
	highest := 0
	for _, a := range attacks {
		highest = max(highest, a.ConvertedEnergyCost)
	}
	return domain.IntPtr(highest)
}

func marketPrice(tp *tcgPlayer) *decimal.Decimal {
	if tp == nil {
		return nil
	}
	for _, variant := range priceVariants {
		p, ok := tp.Prices[variant]
		if !ok {
			continue
		}
		v := p.Market
		if v == nil {
			v = p.Mid
		}
		if v != nil {
			d := decimal.NewFromFloat(*v)
			return &d
		}
	}
	return nil
}

func attributes(raw card) map[string]string {
	attrs := make(map[string]string)
	if raw.Supertype != "" {
		attrs["supertype"] = raw.Supertype
	}
	if len(raw.Subtypes) > 0 {
		attrs["subtypes"] = strings.Join(raw.Subtypes, ",")
	}
	if raw.HP != "" {
		attrs["hp"] = raw.HP
	}
	if len(raw.Types) > 0 {
		attrs["types"] = strings.Join(raw.Types, ",")
	}
	if raw.Artist != "" {
		attrs["artist"] = raw.Artist
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
