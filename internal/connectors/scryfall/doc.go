// Package scryfall provides the Scryfall Magic: The Gathering connector
// (source B).
//
// Pages come from GET {base}/cards/search?q&page. Scryfall returns a fixed
// 175 cards per page together with has_more and total_cards; has_more is
// authoritative for exhaustion.
package scryfall
