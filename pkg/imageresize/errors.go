package imageresize

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrInvalidInput indicates an empty path or no positive dimension
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceUnavailable indicates the source is absent from primary and staging
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrMetadataUnavailable indicates no usable timestamp could be obtained
	ErrMetadataUnavailable = errors.New("metadata unavailable")

	// ErrUnsupportedAction indicates an action other than fit or resize
	ErrUnsupportedAction = errors.New("unsupported action")

	// ErrTransformFailed indicates decoding, encoding or storing a derivative failed
	ErrTransformFailed = errors.New("transform failed")

	// ErrObjectNotFound indicates an object was not found in a backend
	ErrObjectNotFound = errors.New("object not found")
)

// StorageError represents an error related to storage operations
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// GenerationError reports a failed derivative generation
type GenerationError struct {
	Path string
	Op   string
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("derivative generation %s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is makes every generation failure match ErrTransformFailed unless it wraps a
// more specific cause such as ErrUnsupportedAction
func (e *GenerationError) Is(target error) bool {
	return target == ErrTransformFailed && !errors.Is(e.Err, ErrUnsupportedAction)
}
