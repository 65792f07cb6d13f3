package pokemon

import "github.com/custodia-labs/cardsync/internal/core/domain"

// rarities maps Pokemon TCG rarity names onto the shared tiers.
var rarities = domain.RarityTable{
	"common":                    domain.RarityCommon,
	"uncommon":                  domain.RarityUncommon,
	"rare":                      domain.RarityRare,
	"rare holo":                 domain.RarityRare,
	"rare holo ex":              domain.RarityRare,
	"rare holo gx":              domain.RarityRare,
	"rare holo v":               domain.RarityRare,
	"rare holo vmax":            domain.RarityRare,
	"rare holo vstar":           domain.RarityRare,
	"amazing rare":              domain.RarityRare,
	"legendary":                 domain.RarityRare,
	"double rare":               domain.RaritySuperRare,
	"rare ultra":                domain.RarityUltraRare,
	"ultra rare":                domain.RarityUltraRare,
	"illustration rare":         domain.RarityUltraRare,
	"special illustration rare": domain.RaritySecretRare,
	"rare secret":               domain.RaritySecretRare,
	"rare rainbow":              domain.RaritySecretRare,
	"hyper rare":                domain.RaritySecretRare,
	"promo":                     domain.RarityPromo,
	"classic collection":        domain.RaritySpecial,
}

// MapRarity returns the tier for a Pokemon TCG rarity string.
func MapRarity(value string) domain.Rarity {
	return rarities.Lookup(value)
}
