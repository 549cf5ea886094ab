package imageresize

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// lookup is the outcome of a backend metadata fetch
type lookup int

const (
	lookupFound lookup = iota
	lookupNotFound
	lookupNoTimestamp
	lookupFailed
)

func (l lookup) String() string {
	switch l {
	case lookupFound:
		return "found"
	case lookupNotFound:
		return "not_found"
	case lookupNoTimestamp:
		return "no_timestamp"
	default:
		return "failed"
	}
}

// ExtractTimestamp returns the modification time carried by meta, preferring
// the direct Timestamp field over the legacy Info.FileTime
func ExtractTimestamp(meta *ObjectMeta) (time.Time, bool) {
	if meta == nil {
		return time.Time{}, false
	}
	if !meta.Timestamp.IsZero() {
		return meta.Timestamp, true
	}
	if meta.Info != nil && !meta.Info.FileTime.IsZero() {
		return meta.Info.FileTime, true
	}
	return time.Time{}, false
}

// timestamps resolves object timestamps through the cache, falling back to
// backend metadata
type timestamps struct {
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// cached returns the cached timestamp for key. Cache failures count as a miss.
func (t *timestamps) cached(ctx context.Context, key string) (time.Time, bool) {
	ts, ok, err := t.cache.Get(ctx, key)
	if err != nil {
		t.logger.Warn("metadata cache read failed", "key", key, "err", err)
		return time.Time{}, false
	}
	return ts, ok
}

// fetch queries backend metadata for key and refreshes the cache entry when a
// timestamp is obtainable
func (t *timestamps) fetch(ctx context.Context, backend Backend, key string) (time.Time, lookup) {
	meta, err := backend.GetObjectMeta(ctx, key)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return time.Time{}, lookupNotFound
		}
		t.logger.Warn("metadata fetch failed", "key", key, "err", err)
		return time.Time{}, lookupFailed
	}

	ts, ok := ExtractTimestamp(meta)
	if !ok {
		return time.Time{}, lookupNoTimestamp
	}

	if err := t.cache.Put(ctx, key, ts, t.ttl); err != nil {
		t.logger.Warn("metadata cache write failed", "key", key, "err", err)
	}
	return ts, lookupFound
}

// get returns the cached timestamp or fetches it from backend
func (t *timestamps) get(ctx context.Context, backend Backend, key string) (time.Time, lookup) {
	if ts, ok := t.cached(ctx, key); ok {
		return ts, lookupFound
	}
	return t.fetch(ctx, backend, key)
}
