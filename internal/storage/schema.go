package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates all necessary tables and indexes.
func InitSchema(ctx context.Context, db *sql.DB) error {
	return createSavedBeersTable(ctx, db)
}

func createSavedBeersTable(ctx context.Context, db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS saved_beers (
		user_id TEXT NOT NULL,
		beer_name TEXT NOT NULL,
		brewery TEXT NOT NULL DEFAULT '',
		style TEXT NOT NULL DEFAULT '',
		abv TEXT NOT NULL DEFAULT '',
		rating TEXT NOT NULL DEFAULT '',
		saved_at INTEGER NOT NULL,
		PRIMARY KEY (user_id, beer_name)
	);
	CREATE INDEX IF NOT EXISTS idx_saved_beers_user_saved_at ON saved_beers(user_id, saved_at DESC);
	`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create saved_beers table: %w", err)
	}

	return nil
}
