package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// s3Env holds the standard AWS variables shared by every s3:// backend
type s3Env struct {
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	Region          string `env:"AWS_REGION" env-default:"us-east-1"`
	Endpoint        string `env:"AWS_S3_ENDPOINT"`
	CustomDomain    string `env:"AWS_URL"`
}

// WithEnv applies environment variable overrides using the provided prefix.
//
// Derivatives:
//
//	DERIVATIVE_ROOT   - Prefix under which derivatives are stored (default: "resized")
//	CACHE_TTL         - Lifetime of cached timestamps, e.g. "24h"
//	BROWSER_CACHE     - max-age in seconds of stored objects (default: 2592000)
//	VIDEO_PLACEHOLDER - URL returned for video sources
//	FILE_PLACEHOLDER  - URL returned for other non-image sources
//	EXTENSIONS_FILE   - YAML map of content type to extension
//
// Metadata cache:
//
//	CACHE_URL - one of "none", "memory" (default), "badger://" (in-memory),
//	            "badger:///path/to/dir", "postgres://..."
//
// Storage:
//
//	STORAGE_URL        - Primary storage (one of):
//	                     - "memory://" - In-memory storage (default)
//	                     - "file:///path/to/data" - Filesystem storage
//	                     - "s3://bucket?region=us-east-1&endpoint=http://localhost:9000" - S3 storage
//	STAGING_URL        - Optional staging storage sources are promoted from, same formats
//	STORAGE_PUBLIC_URL - Base URL local files are served under (default: "/storage")
//
// S3 credentials and defaults come from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY,
// AWS_REGION, AWS_S3_ENDPOINT and AWS_URL (custom public domain).
func WithEnv(prefix string) Option {
	return func(c *Config) error {
		if v, ok := lookupEnv(prefix, "DERIVATIVE_ROOT"); ok && v != "" {
			c.DerivativeRoot = v
		}
		if v, ok := lookupEnv(prefix, "VIDEO_PLACEHOLDER"); ok && v != "" {
			c.VideoPlaceholder = v
		}
		if v, ok := lookupEnv(prefix, "FILE_PLACEHOLDER"); ok && v != "" {
			c.FilePlaceholder = v
		}
		if v, ok := lookupEnv(prefix, "EXTENSIONS_FILE"); ok && v != "" {
			c.ExtensionsFile = v
		}

		ttl, ok, err := parseDurationEnv(prefix, "CACHE_TTL")
		if err != nil {
			return err
		}
		if ok {
			c.CacheTTL = ttl
		}

		seconds, ok, err := parseIntEnv(prefix, "BROWSER_CACHE")
		if err != nil {
			return err
		}
		if ok {
			c.BrowserCache = time.Duration(seconds) * time.Second
		}

		if err := applyCacheEnv(prefix, c); err != nil {
			return err
		}

		publicURL, _ := lookupEnv(prefix, "STORAGE_PUBLIC_URL")

		if raw, ok := lookupEnv(prefix, "STORAGE_URL"); ok && raw != "" {
			backend, err := parseStorageURL("primary", raw, publicURL)
			if err != nil {
				return fmt.Errorf("invalid %sSTORAGE_URL: %w", prefix, err)
			}
			c.Primary = backend
		} else if publicURL != "" && c.Primary.Type == "memory" {
			if c.Primary.Config == nil {
				c.Primary.Config = map[string]interface{}{}
			}
			c.Primary.Config["url_prefix"] = publicURL
		}

		if raw, ok := lookupEnv(prefix, "STAGING_URL"); ok && raw != "" {
			backend, err := parseStorageURL("staging", raw, publicURL)
			if err != nil {
				return fmt.Errorf("invalid %sSTAGING_URL: %w", prefix, err)
			}
			c.Staging = &backend
		}

		return nil
	}
}

// applyCacheEnv applies cache configuration from environment
func applyCacheEnv(prefix string, c *Config) error {
	raw, ok := lookupEnv(prefix, "CACHE_URL")
	if !ok || raw == "" || raw == "memory" || raw == "memory://" {
		return nil
	}

	switch {
	case raw == "none":
		c.Cache = CacheConfig{Type: "none"}
	case strings.HasPrefix(raw, "badger://"):
		c.Cache = CacheConfig{Type: "badger", Dir: strings.TrimPrefix(raw, "badger://")}
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		c.Cache = CacheConfig{Type: "postgres", DatabaseURL: raw, DBSchema: c.Cache.DBSchema}
	default:
		return fmt.Errorf("unsupported CACHE_URL format: %s (use 'none', 'memory', 'badger://...' or 'postgres://...')", raw)
	}
	return nil
}

// parseStorageURL maps a storage URL to a backend configuration
func parseStorageURL(name, raw, publicURL string) (StorageBackendConfig, error) {
	if raw == "memory" || raw == "memory://" {
		backend := StorageBackendConfig{Name: name, Type: "memory", Config: map[string]interface{}{}}
		if publicURL != "" {
			backend.Config["url_prefix"] = publicURL
		}
		return backend, nil
	}

	if strings.HasPrefix(raw, "file://") {
		path := strings.TrimPrefix(raw, "file://")
		if path == "" {
			return StorageBackendConfig{}, fmt.Errorf("filesystem path cannot be empty")
		}
		if publicURL == "" {
			publicURL = "/storage"
		}
		return StorageBackendConfig{
			Name: name,
			Type: "fs",
			Config: map[string]interface{}{
				"base_dir":        path,
				"public_base_url": publicURL,
			},
		}, nil
	}

	if strings.HasPrefix(raw, "s3://") {
		return parseS3URL(name, raw)
	}

	return StorageBackendConfig{}, fmt.Errorf("unsupported storage URL format: %s (use 'memory://', 'file://...', or 's3://...')", raw)
}

// parseS3URL configures S3 storage from URL
// Format: s3://bucket?region=us-east-1&endpoint=http://localhost:9000&path_style=true&prefix=app/&domain=https://cdn
func parseS3URL(name, raw string) (StorageBackendConfig, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return StorageBackendConfig{}, err
	}
	if u.Host == "" {
		return StorageBackendConfig{}, fmt.Errorf("S3 bucket name cannot be empty")
	}

	var env s3Env
	if err := cleanenv.ReadEnv(&env); err != nil {
		return StorageBackendConfig{}, fmt.Errorf("failed to read AWS environment: %w", err)
	}

	backend := StorageBackendConfig{
		Name: name,
		Type: "s3",
		Config: map[string]interface{}{
			"bucket": u.Host,
			"region": env.Region,
		},
	}
	if env.AccessKeyID != "" {
		backend.Config["access_key_id"] = env.AccessKeyID
	}
	if env.SecretAccessKey != "" {
		backend.Config["secret_access_key"] = env.SecretAccessKey
	}
	if env.Endpoint != "" {
		backend.Config["endpoint"] = env.Endpoint
	}
	if env.CustomDomain != "" {
		backend.Config["custom_domain"] = env.CustomDomain
	}

	q := u.Query()
	for param, key := range map[string]string{
		"region":        "region",
		"endpoint":      "endpoint",
		"prefix":        "path_prefix",
		"domain":        "custom_domain",
		"path_style":    "use_path_style",
		"use_ssl":       "use_ssl",
		"disable_acl":   "disable_acl",
		"create_bucket": "create_bucket_if_not_exist",
	} {
		if v := q.Get(param); v != "" {
			backend.Config[key] = v
		}
	}
	return backend, nil
}

func lookupEnv(prefix, key string) (string, bool) {
	return os.LookupEnv(prefix + key)
}

func parseIntEnv(prefix, key string) (int, bool, error) {
	raw, ok := lookupEnv(prefix, key)
	if !ok || raw == "" {
		return 0, false, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("invalid integer for %s%s: %w", prefix, key, err)
	}
	return parsed, true, nil
}

func parseDurationEnv(prefix, key string) (time.Duration, bool, error) {
	raw, ok := lookupEnv(prefix, key)
	if !ok || raw == "" {
		return 0, false, nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false, fmt.Errorf("invalid duration for %s%s: %w", prefix, key, err)
	}
	return parsed, true, nil
}
