package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Schema creates the cache table
const Schema = `
CREATE TABLE IF NOT EXISTS resize_metadata_cache (
	object_key  TEXT PRIMARY KEY,
	modified_at TIMESTAMPTZ NOT NULL,
	expires_at  TIMESTAMPTZ NOT NULL
)`

// Cache stores object timestamps in a shared PostgreSQL table so several
// instances see the same entries
type Cache struct {
	db  DBTX
	now func() time.Time
}

// Option configures a Cache
type Option func(*Cache)

// WithClock sets the time source used for expiry
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a cache over db
func New(db DBTX, opts ...Option) *Cache {
	c := &Cache{db: db, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewWithPool creates a cache over a connection pool
func NewWithPool(pool *pgxpool.Pool, opts ...Option) *Cache {
	return New(pool, opts...)
}

// EnsureSchema creates the cache table if it does not exist
func (c *Cache) EnsureSchema(ctx context.Context) error {
	if _, err := c.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create cache table: %w", err)
	}
	return nil
}

// Get returns the cached timestamp for key
func (c *Cache) Get(ctx context.Context, key string) (time.Time, bool, error) {
	var ts time.Time
	err := c.db.QueryRow(ctx,
		`SELECT modified_at FROM resize_metadata_cache WHERE object_key = $1 AND expires_at > $2`,
		key, c.now()).Scan(&ts)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("database error in get cache entry: %w", err)
	}
	return ts, true, nil
}

// Put stores ts for key until ttl elapses. A non-positive ttl stores nothing.
func (c *Cache) Put(ctx context.Context, key string, ts time.Time, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	_, err := c.db.Exec(ctx, `
		INSERT INTO resize_metadata_cache (object_key, modified_at, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (object_key) DO UPDATE
		SET modified_at = EXCLUDED.modified_at, expires_at = EXCLUDED.expires_at`,
		key, ts, c.now().Add(ttl))
	if err != nil {
		return fmt.Errorf("database error in put cache entry: %w", err)
	}
	return nil
}

// Delete removes key
func (c *Cache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.Exec(ctx, `DELETE FROM resize_metadata_cache WHERE object_key = $1`, key); err != nil {
		return fmt.Errorf("database error in delete cache entry: %w", err)
	}
	return nil
}

// Purge removes expired entries and returns how many were deleted
func (c *Cache) Purge(ctx context.Context) (int64, error) {
	tag, err := c.db.Exec(ctx, `DELETE FROM resize_metadata_cache WHERE expires_at <= $1`, c.now())
	if err != nil {
		return 0, fmt.Errorf("database error in purge cache: %w", err)
	}
	return tag.RowsAffected(), nil
}
