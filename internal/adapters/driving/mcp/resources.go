package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

const (
	uriScheme = "cardsync://"

	// defaultCardLimit bounds the cards resource unless ?limit= is given.
	defaultCardLimit = 100
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "progress",
		Name:        "progress",
		Description: "Persisted sync progress of every catalog",
		MIMEType:    "application/json",
	}, s.handleProgressResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sources/{sourceId}/cards{?limit}",
		Name:        "source-cards",
		Description: "Stored cards of a catalog, ordered by set and number",
		MIMEType:    "application/json",
	}, s.handleCardsResource)
}

type progressInfo struct {
	Source            string `json:"source"`
	LastProcessedPage int    `json:"last_processed_page"`
	TotalPages        *int   `json:"total_pages"`
	Complete          bool   `json:"complete"`
	LastCheck         string `json:"last_check,omitempty"`
}

func (s *Server) handleProgressResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	infos := make([]progressInfo, 0, len(domain.AllSources()))
	for _, id := range domain.AllSources() {
		p, err := s.ports.Sync.Progress(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("reading progress of %s: %w", id, err)
		}
		info := progressInfo{
			Source:            string(id),
			LastProcessedPage: p.LastProcessedPage,
			TotalPages:        p.TotalPagesKnown,
			Complete:          p.IsComplete,
		}
		if p.LastCheckDate != nil {
			info.LastCheck = p.LastCheckDate.UTC().Format("2006-01-02T15:04:05Z")
		}
		infos = append(infos, info)
	}

	return jsonResult(req.Params.URI, infos)
}

type cardInfo struct {
	Name        string            `json:"name"`
	SetCode     string            `json:"set_code"`
	CardNumber  string            `json:"card_number"`
	Rarity      string            `json:"rarity"`
	ImageURL    *string           `json:"image_url,omitempty"`
	Description *string           `json:"description,omitempty"`
	Cost        *int              `json:"cost,omitempty"`
	Condition   string            `json:"condition"`
	Price       string            `json:"price,omitempty"`
	Expansion   string            `json:"expansion"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

func (s *Server) handleCardsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Catalog == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	raw, limit, ok := parseCardsURI(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	id, err := domain.ParseSourceID(raw)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	cards, err := s.ports.Catalog.ListCards(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("listing cards: %w", err)
	}

	infos := make([]cardInfo, len(cards))
	for i := range cards {
		c := &cards[i]
		infos[i] = cardInfo{
			Name:        c.Name,
			SetCode:     c.SetCode,
			CardNumber:  c.CardNumber,
			Rarity:      string(c.Rarity),
			ImageURL:    c.ImageURL,
			Description: c.Description,
			Cost:        c.Cost,
			Condition:   string(c.Condition),
			Expansion:   c.Expansion,
			Attributes:  c.Attributes,
		}
		if c.Price != nil {
			infos[i].Price = c.Price.StringFixed(2)
		}
	}

	return jsonResult(req.Params.URI, infos)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// parseCardsURI extracts the source and limit from
// cardsync://sources/{sourceId}/cards[?limit=N].
func parseCardsURI(uri string) (source string, limit int, ok bool) {
	const prefix = uriScheme + "sources/"
	const suffix = "/cards"

	limit = defaultCardLimit
	path, query, _ := strings.Cut(uri, "?")
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		return "", 0, false
	}
	source = strings.TrimSuffix(strings.TrimPrefix(path, prefix), suffix)
	if source == "" || strings.Contains(source, "/") {
		return "", 0, false
	}

	for _, kv := range strings.Split(query, "&") {
		k, v, _ := strings.Cut(kv, "=")
		if k != "limit" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return "", 0, false
		}
		limit = n
	}
	return source, limit, true
}
