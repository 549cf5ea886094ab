package urlstrategy

import (
	"net/url"
)

// Kind tags a storage backend for URL construction
type Kind string

const (
	// KindLocal is a local filesystem backend served under a public base URL
	KindLocal Kind = "local"

	// KindObjectStore is an S3-compatible object store
	KindObjectStore Kind = "object-store"

	// KindMemory is an in-process backend, mostly used for tests
	KindMemory Kind = "memory"
)

// Backend is the minimal view of a storage backend needed for URL generation
// (declared here to avoid circular imports)
type Backend interface {
	Kind() Kind
}

// DirectURLer is implemented by backends that can build their own public URLs
type DirectURLer interface {
	PublicURL(key string) (string, error)
}

// ObjectStore exposes endpoint introspection for object-store backends
type ObjectStore interface {
	Bucket() string
	Endpoint() *url.URL
	PathPrefix() string
	// CustomDomain returns the configured public domain, or "" when unset
	CustomDomain() string
}

// LocalStore exposes the public base URL of a local filesystem backend
type LocalStore interface {
	PublicBaseURL() string
}
