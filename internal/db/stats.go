package db

import (
	"context"

	"raven_news/internal/models"
)

// CountTotal returns the number of items persisted so far.
func (db *Database) CountTotal(ctx context.Context) (int64, error) {
	var count int64
	err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM rss_items`).Scan(&count)
	return count, err
}

// CountDaily returns the number of items published since local midnight.
func (db *Database) CountDaily(ctx context.Context) (int64, error) {
	var count int64
	err := db.Pool.QueryRow(ctx, `
        SELECT COUNT(*) FROM rss_items
        WHERE published_at >= DATE_TRUNC('day', NOW())
    `).Scan(&count)
	return count, err
}

// CountBySource returns the number of items persisted for one provider.
func (db *Database) CountBySource(ctx context.Context, source string) (int64, error) {
	var count int64
	err := db.Pool.QueryRow(ctx, `
        SELECT COUNT(*) FROM rss_items
        WHERE source = $1
    `, models.CanonicalSource(source)).Scan(&count)
	return count, err
}
