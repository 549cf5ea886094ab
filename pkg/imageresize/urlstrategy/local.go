package urlstrategy

import (
	"fmt"
	"strings"
)

func localURL(store LocalStore, key string) (string, error) {
	base := store.PublicBaseURL()
	if base == "" {
		return "", fmt.Errorf("public base URL not configured for local backend")
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimLeft(key, "/"), nil
}
