package onepiece

import "github.com/custodia-labs/cardsync/internal/core/domain"

// rarities maps One Piece rarity codes (lower-cased) onto the shared tiers.
var rarities = domain.RarityTable{
	"l":   domain.RarityLeader,
	"c":   domain.RarityCommon,
	"uc":  domain.RarityUncommon,
	"r":   domain.RarityRare,
	"sr":  domain.RaritySuperRare,
	"sec": domain.RaritySecretRare,
	"ur":  domain.RarityUltraRare,
	"p":   domain.RarityPromo,
	"sp":  domain.RaritySpecial,
	"tr":  domain.RaritySpecial,
}

// MapRarity returns the tier for a One Piece rarity code.
func MapRarity(value string) domain.Rarity {
	return rarities.Lookup(value)
}
