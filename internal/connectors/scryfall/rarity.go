package scryfall

import "github.com/custodia-labs/cardsync/internal/core/domain"

var rarities = domain.RarityTable{
	"common":   domain.RarityCommon,
	"uncommon": domain.RarityUncommon,
	"rare":     domain.RarityRare,
	"mythic":   domain.RarityMythicRare,
	"special":  domain.RaritySpecial,
	"bonus":    domain.RaritySpecial,
}

// MapRarity returns the tier for a Scryfall rarity string.
func MapRarity(value string) domain.Rarity {
	return rarities.Lookup(value)
}
