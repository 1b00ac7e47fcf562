package storage

import (
	"time"

	"github.com/titansbeer/titans-linebot-go/internal/beer"
)

// SavedBeer is one row of the saved_beers table.
type SavedBeer struct {
	UserID   string
	BeerName string
	Brewery  string
	Style    string
	ABV      string
	Rating   string
	SavedAt  int64 // Unix seconds
}

// Saved converts the row to the wire form served to the bot.
func (s SavedBeer) Saved() beer.Saved {
	return beer.Saved{
		UserID:   s.UserID,
		BeerName: s.BeerName,
		Brewery:  s.Brewery,
		Style:    s.Style,
		ABV:      beer.Text(s.ABV),
		Rating:   beer.Text(s.Rating),
		SavedAt:  time.Unix(s.SavedAt, 0).UTC().Format(time.RFC3339),
	}
}

// FromSaveRequest builds a row from a save request.
func FromSaveRequest(req beer.SaveRequest, savedAt time.Time) SavedBeer {
	return SavedBeer{
		UserID:   req.UserID,
		BeerName: req.BeerName,
		Brewery:  req.Brewery,
		Style:    req.Style,
		ABV:      req.ABV,
		Rating:   req.Rating,
		SavedAt:  savedAt.Unix(),
	}
}
