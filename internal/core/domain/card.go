package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Rarity is the provider-independent rarity tier of a card.
// Each adapter maps its own vocabulary onto this closed set.
type Rarity string

const (
	RarityCommon     Rarity = "COMMON"
	RarityUncommon   Rarity = "UNCOMMON"
	RarityRare       Rarity = "RARE"
	RaritySuperRare  Rarity = "SUPER_RARE"
	RarityUltraRare  Rarity = "ULTRA_RARE"
	RaritySecretRare Rarity = "SECRET_RARE"
	RarityMythicRare Rarity = "MYTHIC_RARE"
	RarityLeader     Rarity = "LEADER"
	RarityPromo      Rarity = "PROMO"
	RaritySpecial    Rarity = "SPECIAL"
)

// DefaultRarity is used for missing or unrecognised provider values.
const DefaultRarity = RarityCommon

var allRarities = []Rarity{
	RarityCommon, RarityUncommon, RarityRare, RaritySuperRare, RarityUltraRare,
	RaritySecretRare, RarityMythicRare, RarityLeader, RarityPromo, RaritySpecial,
}

// Rarities returns every rarity tier.
func Rarities() []Rarity {
	out := make([]Rarity, len(allRarities))
	copy(out, allRarities)
	return out
}

// Valid reports whether r belongs to the closed rarity set.
func (r Rarity) Valid() bool {
	for _, known := range allRarities {
		if r == known {
			return true
		}
	}
	return false
}

// RarityTable maps lower-cased provider rarity strings to tiers.
type RarityTable map[string]Rarity

// Lookup normalises a provider value and returns its tier,
// falling back to DefaultRarity.
func (t RarityTable) Lookup(value string) Rarity {
	key := strings.ToLower(strings.TrimSpace(value))
	if key == "" {
		return DefaultRarity
	}
	if r, ok := t[key]; ok {
		return r
	}
	return DefaultRarity
}

// Condition is the physical condition of a card.
type Condition string

const (
	ConditionMint        Condition = "MINT"
	ConditionNearMint    Condition = "NEAR_MINT"
	ConditionExcellent   Condition = "EXCELLENT"
	ConditionGood        Condition = "GOOD"
	ConditionLightPlayed Condition = "LIGHT_PLAYED"
	ConditionPlayed      Condition = "PLAYED"
	ConditionPoor        Condition = "POOR"
)

// DefaultCondition is assigned when a provider has no notion of condition.
const DefaultCondition = ConditionNearMint

// UnifiedCard is a normalized catalog record produced by a provider adapter.
type UnifiedCard struct {
	// Name is the card name.
	Name string `json:"name"`

	// Source identifies the catalog the card came from.
	Source SourceID `json:"source"`

	// SetCode is the provider's set identifier.
	SetCode string `json:"set_code"`

	// CardNumber is the collector number within the set.
	CardNumber string `json:"card_number"`

	// Rarity is the normalized rarity tier.
	Rarity Rarity `json:"rarity"`

	// ImageURL points at the card art, if the provider has one.
	ImageURL *string `json:"image_url,omitempty"`

	// Description is the flavour or rules text.
	Description *string `json:"description,omitempty"`

	// Cost is the mana/energy/resource cost. Meaning is provider-specific.
	Cost *int `json:"cost,omitempty"`

	// Condition is always DefaultCondition for catalog records.
	Condition Condition `json:"condition"`

	// Price is the provider's market price, if any.
	Price *decimal.Decimal `json:"price,omitempty"`

	// Expansion is the human-readable set name.
	Expansion string `json:"expansion"`

	// Attributes holds provider-specific extras (type, power, colour...).
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Tag returns the provider tag of the card's source.
func (c *UnifiedCard) Tag() SourceTag {
	return c.Source.Tag()
}

// Key returns the identity used by sinks to deduplicate emitted cards.
func (c *UnifiedCard) Key() string {
	return string(c.Source) + "/" + c.SetCode + "/" + c.CardNumber + "/" + c.Name
}

// StringPtr returns a pointer to s, or nil if s is blank.
func StringPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
