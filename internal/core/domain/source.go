package domain

import (
	"fmt"
	"strings"
)

// SourceID identifies one of the external card catalog providers.
type SourceID string

const (
	// SourcePokemon is the Pokemon TCG API catalog (source A).
	SourcePokemon SourceID = "pokemon"

	// SourceMagic is the Scryfall Magic: The Gathering catalog (source B).
	SourceMagic SourceID = "magic"

	// SourceOnePiece is the apitcg One Piece catalog (source C).
	SourceOnePiece SourceID = "onepiece"
)

// SourceTag is the short provider tag carried on every UnifiedCard.
type SourceTag string

// Source tags.
const (
	TagA SourceTag = "A"
	TagB SourceTag = "B"
	TagC SourceTag = "C"
)

// AllSources returns every known source in a stable order.
func AllSources() []SourceID {
	return []SourceID{SourcePokemon, SourceMagic, SourceOnePiece}
}

// Tag returns the provider tag for the source.
// Returns an empty tag for unknown sources.
func (s SourceID) Tag() SourceTag {
	switch s {
	case SourcePokemon:
		return TagA
	case SourceMagic:
		return TagB
	case SourceOnePiece:
		return TagC
	default:
		return ""
	}
}

// DisplayName returns a human-readable catalog name.
func (s SourceID) DisplayName() string {
	switch s {
	case SourcePokemon:
		return "Pokemon TCG"
	case SourceMagic:
		return "Magic: The Gathering"
	case SourceOnePiece:
		return "One Piece TCG"
	default:
		return string(s)
	}
}

// Valid reports whether the source is one of the known catalogs.
func (s SourceID) Valid() bool {
	return s.Tag() != ""
}

// String implements fmt.Stringer.
func (s SourceID) String() string {
	return string(s)
}

// ParseSourceID converts user input into a SourceID.
// Accepts the source name or its tag, case-insensitively.
func ParseSourceID(value string) (SourceID, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, id := range AllSources() {
		if v == string(id) || v == strings.ToLower(string(id.Tag())) {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: unknown source %q", ErrUnsupportedType, value)
}
