package imageresize

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// sourceResolver locates a source on the primary backend, promoting it from
// the staging backend when the primary lacks it
type sourceResolver struct {
	primary Backend
	staging Backend
	times   *timestamps
	policy  uploadPolicy
	logger  *slog.Logger
}

// Resolve looks sourcePath up on the primary backend, promoting it from
// staging when the primary lacks it. The outcome is lookupNotFound when the
// source is unavailable; otherwise it carries the timestamp the primary
// reported, so callers need no second metadata round-trip.
func (r *sourceResolver) Resolve(ctx context.Context, sourcePath string) (time.Time, lookup, error) {
	ts, res := r.times.fetch(ctx, r.primary, sourcePath)
	switch res {
	case lookupFound, lookupNoTimestamp:
		return ts, res, nil
	case lookupFailed:
		return time.Time{}, res, fmt.Errorf("%w: source %s", ErrMetadataUnavailable, sourcePath)
	}

	if r.staging == nil || r.staging == r.primary {
		return time.Time{}, lookupNotFound, nil
	}

	exists, err := r.staging.Exists(ctx, sourcePath)
	if err != nil {
		return time.Time{}, lookupFailed, &StorageError{Backend: string(r.staging.Kind()), Key: sourcePath, Op: "exists", Err: err}
	}
	if !exists {
		return time.Time{}, lookupNotFound, nil
	}

	if err := r.promote(ctx, sourcePath); err != nil {
		return time.Time{}, lookupFailed, err
	}
	r.logger.Info("promoted source from staging", "path", sourcePath)

	ts, res = r.times.fetch(ctx, r.primary, sourcePath)
	if res == lookupFailed {
		return time.Time{}, res, fmt.Errorf("%w: promoted source %s", ErrMetadataUnavailable, sourcePath)
	}
	return ts, res, nil
}

// promote copies sourcePath from the staging backend into the primary backend
func (r *sourceResolver) promote(ctx context.Context, sourcePath string) error {
	reader, err := r.staging.Download(ctx, sourcePath)
	if err != nil {
		return &StorageError{Backend: string(r.staging.Kind()), Key: sourcePath, Op: "download", Err: err}
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return &StorageError{Backend: string(r.staging.Kind()), Key: sourcePath, Op: "read", Err: err}
	}

	contentType := ""
	if meta, err := r.staging.GetObjectMeta(ctx, sourcePath); err == nil {
		contentType = meta.ContentType
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	params := r.policy.params(sourcePath, contentType)
	if err := r.primary.UploadWithParams(ctx, bytes.NewReader(data), params); err != nil {
		return &StorageError{Backend: string(r.primary.Kind()), Key: sourcePath, Op: "promote", Err: err}
	}
	return nil
}
