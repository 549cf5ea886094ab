package urlstrategy

import (
	"fmt"
	"strings"
)

// objectStoreURL prefers the configured custom domain and otherwise builds a
// virtual-hosted style URL: scheme://bucket.host/prefix+key
func objectStoreURL(store ObjectStore, key string) (string, error) {
	path := "/" + strings.TrimLeft(store.PathPrefix()+key, "/")

	if domain := store.CustomDomain(); domain != "" {
		return strings.TrimSuffix(domain, "/") + path, nil
	}

	endpoint := store.Endpoint()
	if endpoint == nil || endpoint.Host == "" {
		return "", fmt.Errorf("object store endpoint not configured")
	}
	if store.Bucket() == "" {
		return "", fmt.Errorf("object store bucket not configured")
	}

	scheme := endpoint.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s.%s%s", scheme, store.Bucket(), endpoint.Host, path), nil
}
