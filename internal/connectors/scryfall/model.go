package scryfall

import json "github.com/goccy/go-json"

// searchResponse is the /cards/search list envelope.
type searchResponse struct {
	Object     string            `json:"object"`
	TotalCards int               `json:"total_cards"`
	HasMore    bool              `json:"has_more"`
	NextPage   string            `json:"next_page"`
	Data       []json.RawMessage `json:"data"`
}

type card struct {
	Object          string     `json:"object"`
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Set             string     `json:"set"`
	SetName         string     `json:"set_name"`
	CollectorNumber string     `json:"collector_number"`
	Rarity          string     `json:"rarity"`
	ImageURIs       *imageURIs `json:"image_uris"`
	CardFaces       []cardFace `json:"card_faces"`
	OracleText      string     `json:"oracle_text"`
	ManaCost        string     `json:"mana_cost"`
	TypeLine        string     `json:"type_line"`
	CMC             *float64   `json:"cmc"`
	Colors          []string   `json:"colors"`
	Artist          string     `json:"artist"`
	Prices          prices     `json:"prices"`
}

type cardFace struct {
	Name       string     `json:"name"`
	OracleText string     `json:"oracle_text"`
	ImageURIs  *imageURIs `json:"image_uris"`
}

type imageURIs struct {
	Small  string `json:"small"`
	Normal string `json:"normal"`
	Large  string `json:"large"`
}

type prices struct {
	USD     *string `json:"usd"`
	USDFoil *string `json:"usd_foil"`
}
