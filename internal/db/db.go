package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"raven_news/internal/models"
)

// Database wraps the PostgreSQL connection pool. The pool is the only shared
// mutable resource of the ingestion pipeline and is safe for concurrent use
// by all in-flight units.
type Database struct {
	Pool *pgxpool.Pool
}

// NewDB creates a connection pool for connString and verifies it with a ping.
func NewDB(ctx context.Context, connString string) (*Database, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}
	return &Database{Pool: pool}, nil
}

// Close closes the connection pool.
func (db *Database) Close() {
	db.Pool.Close()
}

// Ping verifies the database is reachable.
func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Ensure creates the rss_items table and its indexes when missing.
func (db *Database) Ensure(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS rss_items (
            id            uuid PRIMARY KEY,
            source        text NOT NULL,
            title         text NOT NULL,
            link          text NOT NULL,
            summary       text,
            published_at  timestamptz NOT NULL,
            created_at    timestamptz NOT NULL DEFAULT now()
        );
        CREATE INDEX IF NOT EXISTS rss_items_source_idx ON rss_items (source);
        CREATE INDEX IF NOT EXISTS rss_items_published_at_idx ON rss_items (published_at);
        CREATE INDEX IF NOT EXISTS rss_items_created_at_idx ON rss_items (created_at);
    `)
	return err
}

// InsertItem persists one canonical item with first-write-wins semantics.
// The primary key on id enforces uniqueness at the storage layer, so racing
// writers for the same fingerprint commit exactly one row. Returns false when
// the item was already present; that is steady state, not an error.
// created_at is stamped by the database at the moment of the first insert.
func (db *Database) InsertItem(ctx context.Context, item models.Item) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `
        INSERT INTO rss_items (id, source, title, link, summary, published_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (id) DO NOTHING
    `, item.ID, item.Source, item.Title, item.Link, item.Summary, item.PublishedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
