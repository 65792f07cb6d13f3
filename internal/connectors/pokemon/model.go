package pokemon

import json "github.com/goccy/go-json"

// pageResponse is the /v2/cards envelope.
type pageResponse struct {
	Data       []json.RawMessage `json:"data"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	Count      int               `json:"count"`
	TotalCount int               `json:"totalCount"`
}

type card struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Supertype   string     `json:"supertype"`
	Subtypes    []string   `json:"subtypes"`
	HP          string     `json:"hp"`
	Types       []string   `json:"types"`
	Rules       []string   `json:"rules"`
	Attacks     []attack   `json:"attacks"`
	Set         cardSet    `json:"set"`
	Number      string     `json:"number"`
	Rarity      string     `json:"rarity"`
	FlavorText  string     `json:"flavorText"`
	Images      images     `json:"images"`
	TCGPlayer   *tcgPlayer `json:"tcgplayer"`
	Artist      string     `json:"artist"`
}

type attack struct {
	Name                string `json:"name"`
	ConvertedEnergyCost int    `json:"convertedEnergyCost"`
}

type cardSet struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Series string `json:"series"`
}

type images struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

type tcgPlayer struct {
	Prices map[string]priceSet `json:"prices"`
}

type priceSet struct {
	Market *float64 `json:"market"`
	Mid    *float64 `json:"mid"`
}

// priceVariants is the order in which printings are consulted for a price.
var priceVariants = []string{
	"normal",
	"holofoil",
	"reverseHolofoil",
	"1stEditionHolofoil",
	"1stEditionNormal",
	"unlimitedHolofoil",
}
