package config

import (
	"fmt"
	"time"
)

// WithDerivativeRoot sets the prefix under which derivatives are stored
func WithDerivativeRoot(root string) Option {
	return func(c *Config) error {
		if root == "" {
			return fmt.Errorf("derivative root cannot be empty")
		}
		c.DerivativeRoot = root
		return nil
	}
}

// WithCacheTTL sets how long cached timestamps live
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Config) error {
		if ttl < 0 {
			return fmt.Errorf("cache TTL must not be negative, got: %s", ttl)
		}
		c.CacheTTL = ttl
		return nil
	}
}

// WithBrowserCache sets the max-age of stored objects
func WithBrowserCache(d time.Duration) Option {
	return func(c *Config) error {
		if d < 0 {
			return fmt.Errorf("browser cache must not be negative, got: %s", d)
		}
		c.BrowserCache = d
		return nil
	}
}

// WithPlaceholders sets the video and generic file placeholder URLs
func WithPlaceholders(video, file string) Option {
	return func(c *Config) error {
		if video != "" {
			c.VideoPlaceholder = video
		}
		if file != "" {
			c.FilePlaceholder = file
		}
		return nil
	}
}

// WithExtensionTable merges the YAML table at path over the built-in table
func WithExtensionTable(path string) Option {
	return func(c *Config) error {
		c.ExtensionsFile = path
		return nil
	}
}

// WithCache selects the metadata cache. dir is used by badger, url by postgres.
func WithCache(cacheType, dir, url string) Option {
	return func(c *Config) error {
		switch cacheType {
		case "none", "memory":
			c.Cache = CacheConfig{Type: cacheType}
		case "badger":
			c.Cache = CacheConfig{Type: cacheType, Dir: dir}
		case "postgres":
			if url == "" {
				return fmt.Errorf("database URL is required for postgres cache")
			}
			c.Cache = CacheConfig{Type: cacheType, DatabaseURL: url, DBSchema: c.Cache.DBSchema}
		default:
			return fmt.Errorf("cache type must be 'none', 'memory', 'badger' or 'postgres', got: %s", cacheType)
		}
		return nil
	}
}

// WithCacheSchema sets the Postgres schema of the cache table
func WithCacheSchema(schema string) Option {
	return func(c *Config) error {
		c.Cache.DBSchema = schema
		return nil
	}
}

// WithPrimaryStorage sets the backend holding sources and derivatives
func WithPrimaryStorage(backend StorageBackendConfig) Option {
	return func(c *Config) error {
		if backend.Config == nil {
			backend.Config = map[string]interface{}{}
		}
		if backend.Name == "" {
			backend.Name = "primary"
		}
		c.Primary = backend
		return nil
	}
}

// WithStagingStorage sets the backend sources are promoted from
func WithStagingStorage(backend StorageBackendConfig) Option {
	return func(c *Config) error {
		if backend.Config == nil {
			backend.Config = map[string]interface{}{}
		}
		if backend.Name == "" {
			backend.Name = "staging"
		}
		c.Staging = &backend
		return nil
	}
}

// MemoryStorage describes an in-memory backend
func MemoryStorage(urlPrefix string) StorageBackendConfig {
	return StorageBackendConfig{
		Type:   "memory",
		Config: map[string]interface{}{"url_prefix": urlPrefix},
	}
}

// FilesystemStorage describes a filesystem backend served under publicBaseURL
func FilesystemStorage(baseDir, publicBaseURL string) StorageBackendConfig {
	return StorageBackendConfig{
		Type: "fs",
		Config: map[string]interface{}{
			"base_dir":        baseDir,
			"public_base_url": publicBaseURL,
		},
	}
}

// S3Storage describes an S3 backend
func S3Storage(bucket, region, endpoint string, usePathStyle bool) StorageBackendConfig {
	backend := StorageBackendConfig{
		Type: "s3",
		Config: map[string]interface{}{
			"bucket": bucket,
			"region": region,
		},
	}
	if endpoint != "" {
		backend.Config["endpoint"] = endpoint
		backend.Config["use_path_style"] = usePathStyle
	}
	return backend
}
