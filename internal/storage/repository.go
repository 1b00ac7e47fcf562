package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/titansbeer/titans-linebot-go/internal/errors"
)

// DefaultListLimit caps ListSavedBeers when no limit is given.
const DefaultListLimit = 50

// SaveBeer inserts or updates a saved beer keyed by (user_id, beer_name).
func (db *DB) SaveBeer(ctx context.Context, b SavedBeer) error {
	if strings.TrimSpace(b.UserID) == "" {
		return apperrors.NewValidationError("user_id", "required")
	}
	if strings.TrimSpace(b.BeerName) == "" {
		return apperrors.NewValidationError("beer_name", "required")
	}

	query := `
		INSERT INTO saved_beers (user_id, beer_name, brewery, style, abv, rating, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, beer_name) DO UPDATE SET
			brewery = excluded.brewery,
			style = excluded.style,
			abv = excluded.abv,
			rating = excluded.rating,
			saved_at = excluded.saved_at
	`
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, query, b.UserID, b.BeerName, b.Brewery, b.Style, b.ABV, b.Rating, b.SavedAt)
	if err != nil {
		slog.ErrorContext(ctx, "failed to save beer",
			"user_id", b.UserID,
			"error", err)
		return fmt.Errorf("failed to save beer: %w", err)
	}

	// Warn on slow queries (>100ms)
	if duration := time.Since(start); duration > 100*time.Millisecond {
		slog.WarnContext(ctx, "slow database operation",
			"operation", "SaveBeer",
			"duration_ms", duration.Milliseconds())
	}
	return nil
}

// ListSavedBeers returns the user's saved beers, newest first.
func (db *DB) ListSavedBeers(ctx context.Context, userID string, limit int) ([]SavedBeer, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
		SELECT user_id, beer_name, brewery, style, abv, rating, saved_at
		FROM saved_beers
		WHERE user_id = ?
		ORDER BY saved_at DESC, rowid DESC
		LIMIT ?
	`
	rows, err := db.conn.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved beers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	beers := make([]SavedBeer, 0)
	for rows.Next() {
		var b SavedBeer
		if err := rows.Scan(&b.UserID, &b.BeerName, &b.Brewery, &b.Style, &b.ABV, &b.Rating, &b.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan saved beer: %w", err)
		}
		beers = append(beers, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate saved beers: %w", err)
	}
	return beers, nil
}

// CountSavedBeers returns the number of beers the user saved.
func (db *DB) CountSavedBeers(ctx context.Context, userID string) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM saved_beers WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count saved beers: %w", err)
	}
	return count, nil
}
