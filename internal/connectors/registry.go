package connectors

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/cardsync/internal/connectors/httpapi"
	"github.com/custodia-labs/cardsync/internal/connectors/onepiece"
	"github.com/custodia-labs/cardsync/internal/connectors/pokemon"
	"github.com/custodia-labs/cardsync/internal/connectors/scryfall"
	"github.com/custodia-labs/cardsync/internal/core/domain"
	"github.com/custodia-labs/cardsync/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.ProviderRegistry = (*Registry)(nil)

// Registry holds one provider per source.
type Registry struct {
	mu        sync.RWMutex
	providers map[domain.SourceID]driven.Provider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[domain.SourceID]driven.Provider)}
}

// NewRegistryFromConfig registers a provider for every enabled source.
// The HTTP options are passed to every connector.
func NewRegistryFromConfig(cfg *domain.AppConfig, opts ...httpapi.Option) *Registry {
	r := NewRegistry()
	for _, id := range cfg.EnabledSources() {
		r.Register(NewProvider(id, cfg.Source(id), opts...))
	}
	return r
}

// NewProvider builds the connector for a source.
// Returns nil for unknown sources.
func NewProvider(id domain.SourceID, settings domain.SourceSettings, opts ...httpapi.Option) driven.Provider {
	switch id {
	case domain.SourcePokemon:
		return pokemon.New(pokemon.ParseConfig(settings), opts...)
	case domain.SourceMagic:
		return scryfall.New(scryfall.ParseConfig(settings), opts...)
	case domain.SourceOnePiece:
		return onepiece.New(onepiece.ParseConfig(settings), opts...)
	default:
		return nil
	}
}

// Register adds or replaces the provider for its source.
func (r *Registry) Register(p driven.Provider) {
	if p == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.SourceID()] = p
}

// Get returns the provider for a source.
func (r *Registry) Get(sourceID domain.SourceID) (driven.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[sourceID]
	if !ok {
		return nil, fmt.Errorf("%w: no provider for source %q", domain.ErrNotFound, sourceID)
	}
	return p, nil
}

// Sources returns registered sources in canonical order.
func (r *Registry) Sources() []domain.SourceID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids []domain.SourceID
	for _, id := range domain.AllSources() {
		if _, ok := r.providers[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
