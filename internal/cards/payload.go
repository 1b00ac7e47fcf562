package cards

import (
	"bytes"
	"encoding/json"

	"github.com/titansbeer/titans-linebot-go/internal/beer"
	"github.com/titansbeer/titans-linebot-go/internal/lineutil"
)

// shrinkSteps are the successive rune budgets applied to free-text fields
// when a payload exceeds the postback data limit.
var shrinkSteps = []int{60, 40, 30, 20, 12, 6}

// EncodeSavePayload encodes p as postback data no longer than
// lineutil.MaxPostbackData bytes. The label is dropped first, then the
// free-text fields are shortened.
func EncodeSavePayload(p beer.SavePayload) string {
	if s, ok := encodeWithin(p); ok {
		return s
	}

	p.Label = ""
	if s, ok := encodeWithin(p); ok {
		return s
	}

	for _, n := range shrinkSteps {
		shrunk := p
		shrunk.Name = lineutil.TruncateRunes(p.Name, n)
		shrunk.Brewery = lineutil.TruncateRunes(p.Brewery, n)
		shrunk.Style = lineutil.TruncateRunes(p.Style, n)
		shrunk.ABV = beer.Text(lineutil.TruncateRunes(p.ABV.String(), min(n, 12)))
		shrunk.Rating = beer.Text(lineutil.TruncateRunes(p.Rating.String(), min(n, 12)))
		if s, ok := encodeWithin(shrunk); ok {
			return s
		}
	}

	s, _ := encode(beer.SavePayload{Action: beer.ActionSave, Name: lineutil.TruncateRunes(p.Name, 6)})
	return s
}

// DecodeSavePayload parses postback data produced by EncodeSavePayload.
func DecodeSavePayload(data string) (beer.SavePayload, error) {
	var p beer.SavePayload
	err := json.Unmarshal([]byte(data), &p)
	return p, err
}

func encodeWithin(p beer.SavePayload) (string, bool) {
	s, err := encode(p)
	if err != nil {
		return "", false
	}
	return s, len(s) <= lineutil.MaxPostbackData
}

func encode(p beer.SavePayload) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
