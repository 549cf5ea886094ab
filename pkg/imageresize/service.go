package imageresize

import (
	"context"
)

// Service resolves requests for resized derivatives of stored images
type Service interface {
	// URL returns the public URL of the derivative, or "" when it cannot be produced
	URL(ctx context.Context, req Request) string

	// StoragePath returns the storage key of the derivative, or "" when it cannot be produced
	StoragePath(ctx context.Context, req Request) string

	// Resolve runs the full resolution and reports why it failed
	Resolve(ctx context.Context, req Request) (*Result, error)
}
