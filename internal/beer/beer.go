// Package beer holds the beer records exchanged between the menu sources,
// the card builder and the saved-beer store.
package beer

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ActionSave is the postback action that saves a beer to the user's list.
const ActionSave = "save_beer"

// Text is a string field that also accepts JSON numbers and null.
// Scraped sources report ratings and ABV as either type.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*t = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case data[0] == 't' || data[0] == 'f':
		*t = Text(data)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*t = Text(formatNumber(n))
	}
	return nil
}

func (t Text) String() string { return string(t) }

func formatNumber(n json.Number) string {
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Record is one beer on the venue menu. Every field may be empty.
type Record struct {
	Name    string `json:"name"`
	Brewery string `json:"brewery"`
	Style   string `json:"style"`
	ABV     Text   `json:"abv"`
	Rating  Text   `json:"rating"`
	Label   string `json:"label"`
	CheckIn string `json:"check_in"`
}

// HasName reports whether the record carries a usable name.
func (r Record) HasName() bool {
	return strings.TrimSpace(r.Name) != ""
}

// Saved is a beer stored in a user's list by the delegated service.
type Saved struct {
	UserID   string `json:"user_id"`
	BeerName string `json:"beer_name"`
	Brewery  string `json:"brewery"`
	Style    string `json:"style"`
	ABV      Text   `json:"abv"`
	Rating   Text   `json:"rating"`
	SavedAt  string `json:"saved_at"`
}

// SaveRequest is the body of the delegated service's save call.
type SaveRequest struct {
	UserID   string `json:"user_id"`
	BeerName string `json:"beer_name"`
	Brewery  string `json:"brewery"`
	Style    string `json:"style"`
	ABV      string `json:"abv"`
	Rating   string `json:"rating"`
}

// SavePayload is the postback data embedded in each beer card's save button.
type SavePayload struct {
	Action  string `json:"action"`
	Name    string `json:"name"`
	Brewery string `json:"brewery"`
	Style   string `json:"style"`
	ABV     Text   `json:"abv"`
	Rating  Text   `json:"rating"`
	Label   string `json:"label,omitempty"`
}

// PayloadFor builds the save payload for a menu record.
func PayloadFor(r Record) SavePayload {
	return SavePayload{
		Action:  ActionSave,
		Name:    r.Name,
		Brewery: r.Brewery,
		Style:   r.Style,
		ABV:     r.ABV,
		Rating:  r.Rating,
		Label:   r.Label,
	}
}

// SaveRequest converts the payload into the delegated service's request body.
func (p SavePayload) SaveRequest(userID string) SaveRequest {
	return SaveRequest{
		UserID:   userID,
		BeerName: p.Name,
		Brewery:  p.Brewery,
		Style:    p.Style,
		ABV:      p.ABV.String(),
		Rating:   p.Rating.String(),
	}
}
