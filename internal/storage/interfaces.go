package storage

import "context"

// SavedBeerRepository defines the interface for saved beer operations.
type SavedBeerRepository interface {
	// SaveBeer inserts a beer or refreshes it when the user already saved
	// a beer with the same name.
	SaveBeer(ctx context.Context, beer SavedBeer) error

	// ListSavedBeers returns the user's beers, newest first.
	ListSavedBeers(ctx context.Context, userID string, limit int) ([]SavedBeer, error)

	// CountSavedBeers returns how many beers the user saved.
	CountSavedBeers(ctx context.Context, userID string) (int, error)
}

var _ SavedBeerRepository = (*DB)(nil)
