package imageresize

import (
	"context"
	"io"
	"time"

	"github.com/tendant/simple-resize/pkg/imageresize/urlstrategy"
)

// Backend is the blob storage capability used by the pipeline
type Backend interface {
	// GetObjectMeta retrieves metadata for an object; ErrObjectNotFound when absent
	GetObjectMeta(ctx context.Context, objectKey string) (*ObjectMeta, error)

	// Exists reports whether an object is present
	Exists(ctx context.Context, objectKey string) (bool, error)

	// Download downloads content directly
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// UploadWithParams uploads content with headers and visibility
	UploadWithParams(ctx context.Context, reader io.Reader, params UploadParams) error

	// Kind tags the backend for URL construction
	Kind() urlstrategy.Kind
}

// Cache is a time-bounded mapping from object key to last-modified timestamp
type Cache interface {
	// Get returns the cached timestamp; false on a miss or an expired entry
	Get(ctx context.Context, key string) (time.Time, bool, error)

	// Put stores a timestamp that expires after ttl
	Put(ctx context.Context, key string, ts time.Time, ttl time.Duration) error

	// Delete removes an entry
	Delete(ctx context.Context, key string) error
}

// Transformer scales encoded image bytes and re-encodes them in format
// ("jpeg", "png" or "gif")
type Transformer interface {
	Transform(ctx context.Context, data []byte, spec TransformSpec, format string) ([]byte, error)
}

// URLResolver builds public URLs for backend objects
type URLResolver interface {
	URLFor(ctx context.Context, backend urlstrategy.Backend, key string, secure bool) (string, error)
}

// ObjectMeta contains metadata about an object in storage. Backends report the
// modification time either in Timestamp or, for stat-style metadata, in
// Info.FileTime.
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	Timestamp   time.Time
	Info        *FileInfo
}

// FileInfo is stat-style metadata reported by filesystem backends
type FileInfo struct {
	FileTime time.Time
	Mode     uint32
}

// UploadParams contains parameters for uploading an object
type UploadParams struct {
	ObjectKey          string
	MimeType           string
	CacheControl       string
	Expires            time.Time
	ContentDisposition string
	Public             bool
}
