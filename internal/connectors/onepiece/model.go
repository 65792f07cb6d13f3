package onepiece

import (
	"bytes"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// pageResponse is the /api/one-piece/cards envelope.
type pageResponse struct {
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Total      int               `json:"total"`
	TotalPages int               `json:"totalPages"`
	Data       []json.RawMessage `json:"data"`
}

type card struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Rarity    string    `json:"rarity"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Images    images    `json:"images"`
	Cost      flexInt   `json:"cost"`
	Attribute attribute `json:"attribute"`
	Power     flexInt   `json:"power"`
	Counter   flexText  `json:"counter"`
	Color     string    `json:"color"`
	Family    string    `json:"family"`
	Ability   string    `json:"ability"`
	Trigger   string    `json:"trigger"`
	Set       *cardSet  `json:"set"`
}

type images struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

type attribute struct {
	Name string `json:"name"`
}

type cardSet struct {
	Name string `json:"name"`
}

// flexInt decodes a number that the API sometimes sends as a string,
// "-" or null. Valid is false when no number was present.
type flexInt struct {
	Value int
	Valid bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		if v, err := n.Float64(); err == nil {
			f.Value, f.Valid = int(v), true
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		f.Value, f.Valid = v, true
	}
	return nil
}

// flexText decodes a string or number into text.
type flexText string

func (f *flexText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexText(n.String())
	return nil
}
