package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	cfg, err := Load(
		WithDerivativeRoot("cache/img"),
		WithCacheTTL(time.Hour),
		WithBrowserCache(time.Minute),
		WithPlaceholders("/v.svg", ""),
		WithCache("badger", "/tmp/badger", ""),
		WithPrimaryStorage(FilesystemStorage("/srv/data", "/files")),
		WithStagingStorage(MemoryStorage("")),
	)
	require.NoError(t, err)

	assert.Equal(t, "cache/img", cfg.DerivativeRoot)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, time.Minute, cfg.BrowserCache)
	assert.Equal(t, "/v.svg", cfg.VideoPlaceholder)
	assert.Equal(t, "/vendor/image-resize/images/placeholders/file.svg", cfg.FilePlaceholder)
	assert.Equal(t, CacheConfig{Type: "badger", Dir: "/tmp/badger"}, cfg.Cache)
	assert.Equal(t, "primary", cfg.Primary.Name)
	assert.Equal(t, "fs", cfg.Primary.Type)
	require.NotNil(t, cfg.Staging)
	assert.Equal(t, "staging", cfg.Staging.Name)
}

func TestOptionErrors(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"empty root", WithDerivativeRoot("")},
		{"negative ttl", WithCacheTTL(-time.Second)},
		{"negative browser cache", WithBrowserCache(-time.Second)},
		{"unknown cache", WithCache("redis", "", "")},
		{"postgres without url", WithCache("postgres", "", "")},
		{"fs without dir", WithPrimaryStorage(FilesystemStorage("", ""))},
		{"s3 without bucket", WithPrimaryStorage(S3Storage("", "us-east-1", "", false))},
		{"unknown backend", WithStagingStorage(StorageBackendConfig{Type: "ftp"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.opt)
			assert.Error(t, err)
		})
	}
}

func TestWithFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resize.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
derivative_root: thumbs
cache_ttl: 2h
browser_cache: 10m
cache:
  type: none
primary:
  name: disk
  type: fs
  config:
    base_dir: /srv/media
    public_base_url: /media
staging:
  name: legacy
  type: memory
`), 0644))

	cfg, err := Load(WithFile(path))
	require.NoError(t, err)
	assert.Equal(t, "thumbs", cfg.DerivativeRoot)
	assert.Equal(t, 2*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 10*time.Minute, cfg.BrowserCache)
	assert.Equal(t, "none", cfg.Cache.Type)
	assert.Equal(t, "fs", cfg.Primary.Type)
	assert.Equal(t, "/srv/media", cfg.Primary.Config["base_dir"])
	require.NotNil(t, cfg.Staging)
	assert.Equal(t, "memory", cfg.Staging.Type)

	// untouched keys keep defaults
	assert.Equal(t, "/vendor/image-resize/images/placeholders/video.svg", cfg.VideoPlaceholder)
}

func TestWithFile_Missing(t *testing.T) {
	_, err := Load(WithFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}

func TestLoadExtensions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ext.yaml")
	require.NoError(t, os.WriteFile(path, []byte("image/jpeg: jpeg\nimage/x-custom: cst\n"), 0644))

	table, err := LoadExtensions(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"image/jpeg": "jpeg", "image/x-custom": "cst"}, table)

	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0644))
	_, err = LoadExtensions(path)
	assert.Error(t, err)
}
