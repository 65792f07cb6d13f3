package onepiece

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/custodia-labs/cardsync/internal/connectors/httpapi"
	"github.com/custodia-labs/cardsync/internal/core/domain"
	"github.com/custodia-labs/cardsync/internal/core/ports/driven"
)

const (
	unknownName   = "Unknown Card"
	unknownNumber = "UNKNOWN"
	unknownSet    = "UNKNOWN"
)

// Verify interface compliance.
var _ driven.Provider = (*Connector)(nil)

// Connector fetches and parses apitcg One Piece pages.
type Connector struct {
	cfg    *Config
	client *httpapi.Client
}

// New creates a One Piece connector.
func New(cfg *Config, opts ...httpapi.Option) *Connector {
	client := httpapi.New(httpapi.Config{
		Timeout:        cfg.Timeout,
		Headers:        map[string]string{HeaderAPIKey: cfg.APIKey},
		ManualRedirect: true,
	}, opts...)
	return &Connector{cfg: cfg, client: client}
}

// SourceID returns the One Piece source.
func (c *Connector) SourceID() domain.SourceID {
	return domain.SourceOnePiece
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
		return nil, fmt.Errorf("onepiece: fetch page %d: %w", cursor.Page, err)
	}

	records := make([]driven.RawRecord, len(resp.Data))
	for i, raw := range resp.Data {
		records[i] = driven.RawRecord{Index: i, Data: raw}
	}

	return &driven.RawPage{
		Cursor:  cursor,
		Records: records,
		Pagination: driven.PaginationInfo{
			TotalPages:   resp.TotalPages,
			TotalRecords: resp.Total,
			HasMore:      cursor.Page < resp.TotalPages,
		},
	}, nil
}

func (c *Connector) pageURL(page int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(c.cfg.PageSize))
	return c.cfg.BaseURL + "/api/one-piece/cards?" + q.Encode()
}

// ParseRecord converts one One Piece card object into a UnifiedCard.
// Missing names, numbers and sets fall back to placeholders rather than
// failing, so only undecodable records are rejected.
func (c *Connector) ParseRecord(record driven.RawRecord) (domain.UnifiedCard, error) {
	var raw card
	if err := json.Unmarshal(record.Data, &raw); err != nil {
		return domain.UnifiedCard{}, domain.NewParseError(domain.SourceOnePiece, fmt.Sprintf("record %d", record.Index), err)
	}

	name := strings.TrimSpace(raw.Name)
	if name == "" {
		name = unknownName
	}

	out := domain.UnifiedCard{
		Name:        name,
		Source:      domain.SourceOnePiece,
		SetCode:     setCode(raw),
		CardNumber:  cardNumber(raw),
		Rarity:      MapRarity(raw.Rarity),
		ImageURL:    domain.StringPtr(imageURL(raw.Images)),
		Description: domain.StringPtr(description(raw)),
		Condition:   domain.DefaultCondition,
		Attributes:  attributes(raw),
	}
	if raw.Cost.Valid {
		out.Cost = domain.IntPtr(raw.Cost.Value)
	}
	if raw.Set != nil {
		out.Expansion = strings.TrimSpace(raw.Set.Name)
	}
	return out, nil
}

// IsExhausted reports whether the run should stop after the cursor's page:
// the reported last page, the caller's ceiling, or the demo cap.
func (c *Connector) IsExhausted(info driven.PaginationInfo, cursor driven.Cursor) bool {
	if cursor.Page >= info.TotalPages {
		return true
	}
	if cursor.Ceiling > 0 && cursor.Page >= cursor.Ceiling {
		return true
	}
	return cursor.Demo && c.cfg.DemoPageCap > 0 && cursor.Page >= c.cfg.DemoPageCap
}

// Advance moves to the next page.
func (c *Connector) Advance(cursor driven.Cursor, _ driven.PaginationInfo) driven.Cursor {
	cursor.Page++
	return cursor
}

func cardNumber(raw card) string {
	if code := strings.TrimSpace(raw.Code); code != "" {
		return code
	}
	if id := strings.TrimSpace(raw.ID); id != "" {
		return id
	}
	return unknownNumber
}

// setCode takes the prefix of the card code (OP01-001 -> OP01), then the
// set name, then a placeholder.
func setCode(raw card) string {
	if code := strings.TrimSpace(raw.Code); code != "" {
		if prefix, _, ok := strings.Cut(code, "-"); ok && prefix != "" {
			return prefix
		}
	}
	if raw.Set != nil && strings.TrimSpace(raw.Set.Name) != "" {
		return strings.TrimSpace(raw.Set.Name)
	}
	return unknownSet
}

func imageURL(img images) string {
	if strings.TrimSpace(img.Large) != "" {
		return img.Large
	}
	return img.Small
}

// description is the card's ability text, with the trigger on its own line.
func description(raw card) string {
	var parts []string
	if a := strings.TrimSpace(raw.Ability); a != "" && a != "-" {
		parts = append(parts, a)
	}
	if t := strings.TrimSpace(raw.Trigger); t != "" {
		parts = append(parts, "Trigger: "+t)
	}
	return strings.Join(parts, "\n")
}

func attributes(raw card) map[string]string {
	attrs := make(map[string]string)
	if raw.Type != "" {
		attrs["type"] = raw.Type
	}
	if raw.Power.Valid {
		attrs["power"] = strconv.Itoa(raw.Power.Value)
	}
	if counter := strings.TrimSpace(string(raw.Counter)); counter != "" && counter != "-" {
		attrs["counter"] = counter
	}
	if raw.Color != "" {
		attrs["color"] = raw.Color
	}
	if raw.Family != "" {
		attrs["family"] = raw.Family
	}
	if raw.Attribute.Name != "" {
		attrs["attribute"] = raw.Attribute.Name
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}
