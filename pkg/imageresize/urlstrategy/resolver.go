package urlstrategy

import (
	"context"
	"fmt"
	"strings"
)

// Resolver maps a backend and object key to a publicly fetchable URL
type Resolver struct{}

// New creates a new URL resolver
func New() *Resolver {
	return &Resolver{}
}

// URLFor returns the public URL of key on backend. A backend that can build its
// own URLs is always asked first; otherwise the rules for its kind apply. When
// secure is set the scheme is upgraded to https.
func (r *Resolver) URLFor(ctx context.Context, backend Backend, key string, secure bool) (string, error) {
	if backend == nil {
		return "", fmt.Errorf("no backend configured")
	}

	var (
		u   string
		err error
	)

	if direct, ok := backend.(DirectURLer); ok {
		u, err = direct.PublicURL(key)
	} else {
		switch backend.Kind() {
		case KindObjectStore:
			store, ok := backend.(ObjectStore)
			if !ok {
				return "", fmt.Errorf("object store backend does not expose its endpoint")
			}
			u, err = objectStoreURL(store, key)
		case KindLocal:
			store, ok := backend.(LocalStore)
			if !ok {
				return "", fmt.Errorf("local backend does not expose a public base URL")
			}
			u, err = localURL(store, key)
		default:
			return "", fmt.Errorf("unsupported backend kind for URL generation: %s", backend.Kind())
		}
	}
	if err != nil {
		return "", err
	}

	if secure {
		u = Secure(u)
	}
	return u, nil
}

// Secure rewrites an insecure http URL to https
func Secure(u string) string {
	if strings.HasPrefix(u, "http:") {
		return "https:" + strings.TrimPrefix(u, "http:")
	}
	return u
}
