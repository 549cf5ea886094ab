package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-resize/pkg/imageresize"
	badgercache "github.com/tendant/simple-resize/pkg/imageresize/cache/badger"
	memorycache "github.com/tendant/simple-resize/pkg/imageresize/cache/memory"
	pgcache "github.com/tendant/simple-resize/pkg/imageresize/cache/postgres"
	fsstorage "github.com/tendant/simple-resize/pkg/imageresize/storage/fs"
	memorystorage "github.com/tendant/simple-resize/pkg/imageresize/storage/memory"
	s3storage "github.com/tendant/simple-resize/pkg/imageresize/storage/s3"
)

// Runtime is an assembled service together with the components it was built
// from. Close releases cache connections.
type Runtime struct {
	Service imageresize.Service
	Primary imageresize.Backend
	Staging imageresize.Backend
	Cache   imageresize.Cache

	closers []func() error
}

// Close releases resources held by the runtime
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BuildService creates a Service instance from the configuration
func (c *Config) BuildService(ctx context.Context, logger *slog.Logger, extra ...imageresize.Option) (*Runtime, error) {
	if logger == nil {
		logger = slog.Default()
	}
	rt := &Runtime{}

	primary, err := buildStorageBackend(c.Primary)
	if err != nil {
		return nil, fmt.Errorf("failed to build storage backend %s: %w", c.Primary.Name, err)
	}
	rt.Primary = primary

	// a staging backend configured identically to the primary is the primary
	if c.Staging != nil && !sameBackend(*c.Staging, c.Primary) {
		staging, err := buildStorageBackend(*c.Staging)
		if err != nil {
			return nil, fmt.Errorf("failed to build storage backend %s: %w", c.Staging.Name, err)
		}
		rt.Staging = staging
	}

	cache, err := c.buildCache(ctx, rt)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to build metadata cache: %w", err)
	}
	rt.Cache = cache

	extensions := imageresize.DefaultExtensions()
	if c.ExtensionsFile != "" {
		overrides, err := LoadExtensions(c.ExtensionsFile)
		if err != nil {
			rt.Close()
			return nil, err
		}
		extensions = extensions.Merge(overrides)
	}

	options := []imageresize.Option{
		imageresize.WithPrimary(primary),
		imageresize.WithCache(cache),
		imageresize.WithCacheTTL(c.CacheTTL),
		imageresize.WithDerivativeRoot(c.DerivativeRoot),
		imageresize.WithBrowserCache(c.BrowserCache),
		imageresize.WithPlaceholders(c.VideoPlaceholder, c.FilePlaceholder),
		imageresize.WithExtensions(extensions),
		imageresize.WithLogger(logger),
	}
	if rt.Staging != nil {
		options = append(options, imageresize.WithStaging(rt.Staging))
	}
	options = append(options, extra...)

	svc, err := imageresize.New(options...)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Service = svc

	logger.Info("resize service configured",
		"primary", c.Primary.Type, "staging", rt.Staging != nil, "cache", c.Cache.Type,
		"root", c.DerivativeRoot, "cache_ttl", c.CacheTTL)
	return rt, nil
}

func sameBackend(a, b StorageBackendConfig) bool {
	return a.Type == b.Type && a.Type != "memory" && reflect.DeepEqual(a.Config, b.Config)
}

// buildCache creates the metadata cache based on the configuration
func (c *Config) buildCache(ctx context.Context, rt *Runtime) (imageresize.Cache, error) {
	if c.CacheTTL == 0 {
		return imageresize.NewNoopCache(), nil
	}

	switch c.Cache.Type {
	case "none":
		return imageresize.NewNoopCache(), nil
	case "memory":
		return memorycache.New(), nil
	case "badger":
		cache, err := badgercache.Open(c.Cache.Dir)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, cache.Close)
		return cache, nil
	case "postgres":
		cfg, err := pgxpool.ParseConfig(c.Cache.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse cache database URL: %w", err)
		}
		// Optionally set search_path for the connection
		schema := c.Cache.DBSchema
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			if schema == "" {
				return nil
			}
			_, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s", pgx.Identifier{schema}.Sanitize()))
			return err
		}
		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		rt.closers = append(rt.closers, func() error { pool.Close(); return nil })
		cache := pgcache.NewWithPool(pool)
		if err := cache.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return cache, nil
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", c.Cache.Type)
	}
}

// buildStorageBackend creates a Backend based on the backend configuration
func buildStorageBackend(config StorageBackendConfig) (imageresize.Backend, error) {
	switch config.Type {
	case "memory":
		return memorystorage.New(memorystorage.Config{
			URLPrefix: getString(config.Config, "url_prefix", ""),
		}), nil

	case "fs":
		return fsstorage.New(fsstorage.Config{
			BaseDir:       getString(config.Config, "base_dir", "./data/storage"),
			PublicBaseURL: getString(config.Config, "public_base_url", "/storage"),
		})

	case "s3":
		return s3storage.New(s3storage.Config{
			Region:                 getString(config.Config, "region", "us-east-1"),
			Bucket:                 getString(config.Config, "bucket", ""),
			AccessKeyID:            getString(config.Config, "access_key_id", ""),
			SecretAccessKey:        getString(config.Config, "secret_access_key", ""),
			Endpoint:               getString(config.Config, "endpoint", ""),
			UseSSL:                 getBool(config.Config, "use_ssl", true),
			UsePathStyle:           getBool(config.Config, "use_path_style", false),
			PathPrefix:             getString(config.Config, "path_prefix", ""),
			CustomDomain:           getString(config.Config, "custom_domain", ""),
			DisableACL:             getBool(config.Config, "disable_acl", false),
			EnableSSE:              getBool(config.Config, "enable_sse", false),
			SSEAlgorithm:           getString(config.Config, "sse_algorithm", "AES256"),
			SSEKMSKeyID:            getString(config.Config, "sse_kms_key_id", ""),
			CreateBucketIfNotExist: getBool(config.Config, "create_bucket_if_not_exist", false),
		})

	default:
		return nil, fmt.Errorf("unsupported storage backend type: %s", config.Type)
	}
}
