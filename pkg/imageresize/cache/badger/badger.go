package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// keyPrefix namespaces cache entries inside a shared database
const keyPrefix = "mtime:"

// Cache persists object timestamps in a badger database. Expiry uses
// badger's native per-entry TTL, which has one-second granularity.
type Cache struct {
	db *badger.DB
}

// Open opens (or creates) a cache database in dir. An empty dir opens an
// in-memory database.
func Open(dir string) (*Cache, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(dir)
	}
	opts.Logger = nil // Disable badger logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached timestamp for key
func (c *Cache) Get(ctx context.Context, key string) (time.Time, bool, error) {
	var ts time.Time
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return ts.UnmarshalBinary(val)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read cache entry %s: %w", key, err)
	}
	return ts, true, nil
}

// Put stores ts for key until ttl elapses. A non-positive ttl stores nothing.
func (c *Cache) Put(ctx context.Context, key string, ts time.Time, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	val, err := ts.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to encode timestamp: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(keyPrefix+key), val).WithTTL(ttl))
	})
}

// Delete removes key
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + key))
	})
}
