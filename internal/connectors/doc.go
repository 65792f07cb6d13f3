// Package connectors holds the card catalog providers and the registry that
// builds them from configuration.
//
// Each subpackage knows how to fetch one page from a specific catalog API
// and how to turn one of its records into a domain.UnifiedCard:
//
//   - pokemon: Pokemon TCG API (source A)
//   - scryfall: Scryfall, Magic: The Gathering (source B)
//   - onepiece: apitcg One Piece (source C)
//
// Shared pieces live in httpapi (transport) and ratelimit (request pacing).
package connectors
