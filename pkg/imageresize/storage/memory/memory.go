package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/tendant/simple-resize/pkg/imageresize"
	"github.com/tendant/simple-resize/pkg/imageresize/urlstrategy"
)

// Backend is an in-memory implementation of the imageresize.Backend interface
type Backend struct {
	mu        sync.RWMutex
	objects   map[string]*object
	urlPrefix string
	now       func() time.Time
}

type object struct {
	data   []byte
	params imageresize.UploadParams
	mtime  time.Time
}

// Config options for the in-memory backend
type Config struct {
	// URLPrefix is prepended to object keys by PublicURL
	URLPrefix string

	// Now stamps modification times; defaults to time.Now
	Now func() time.Time
}

// New creates a new in-memory storage backend
func New(config Config) *Backend {
	now := config.Now
	if now == nil {
		now = time.Now
	}
	return &Backend{
		objects:   make(map[string]*object),
		urlPrefix: strings.TrimRight(config.URLPrefix, "/"),
		now:       now,
	}
}

// Kind tags the backend for URL construction
func (b *Backend) Kind() urlstrategy.Kind {
	return urlstrategy.KindMemory
}

// PublicURL returns the URL prefix joined with the key
func (b *Backend) PublicURL(objectKey string) (string, error) {
	if b.urlPrefix == "" {
		return "", errors.New("memory backend has no URL prefix")
	}
	return b.urlPrefix + "/" + strings.TrimLeft(objectKey, "/"), nil
}

// GetObjectMeta retrieves metadata for an object in memory
func (b *Backend) GetObjectMeta(ctx context.Context, objectKey string) (*imageresize.ObjectMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[objectKey]
	if !exists {
		return nil, &imageresize.StorageError{Backend: "memory", Key: objectKey, Op: "meta", Err: imageresize.ErrObjectNotFound}
	}

	return &imageresize.ObjectMeta{
		Key:         objectKey,
		Size:        int64(len(obj.data)),
		ContentType: obj.params.MimeType,
		Timestamp:   obj.mtime,
	}, nil
}

// Exists reports whether an object is stored under objectKey
func (b *Backend) Exists(ctx context.Context, objectKey string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, exists := b.objects[objectKey]
	return exists, nil
}

// Upload uploads content directly
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	return b.UploadWithParams(ctx, reader, imageresize.UploadParams{
		ObjectKey: objectKey,
		MimeType:  "application/octet-stream",
	})
}

// UploadWithParams uploads content with parameters
func (b *Backend) UploadWithParams(ctx context.Context, reader io.Reader, params imageresize.UploadParams) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[params.ObjectKey] = &object{data: data, params: params, mtime: b.now()}
	return nil
}

// Download downloads content directly
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[objectKey]
	if !exists {
		return nil, &imageresize.StorageError{Backend: "memory", Key: objectKey, Op: "download", Err: imageresize.ErrObjectNotFound}
	}

	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// Params returns the upload parameters an object was stored with
func (b *Backend) Params(objectKey string) (imageresize.UploadParams, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[objectKey]
	if !exists {
		return imageresize.UploadParams{}, false
	}
	return obj.params, true
}

// Touch sets the modification time of an object
func (b *Backend) Touch(objectKey string, mtime time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	obj, exists := b.objects[objectKey]
	if !exists {
		return imageresize.ErrObjectNotFound
	}
	obj.mtime = mtime
	return nil
}

// Delete deletes content
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[objectKey]; !exists {
		return imageresize.ErrObjectNotFound
	}

	delete(b.objects, objectKey)
	return nil
}

// Keys lists stored object keys with the given prefix
func (b *Backend) Keys(prefix string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var keys []string
	for k := range b.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}
