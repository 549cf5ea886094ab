package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-resize/internal/testutil"
	"github.com/tendant/simple-resize/pkg/imageresize"
	badgercache "github.com/tendant/simple-resize/pkg/imageresize/cache/badger"
	memorycache "github.com/tendant/simple-resize/pkg/imageresize/cache/memory"
	fsstorage "github.com/tendant/simple-resize/pkg/imageresize/storage/fs"
	memorystorage "github.com/tendant/simple-resize/pkg/imageresize/storage/memory"
)

func TestBuildService_Memory(t *testing.T) {
	cfg, err := Load(WithPrimaryStorage(MemoryStorage("http://cdn.test")))
	require.NoError(t, err)

	rt, err := cfg.BuildService(context.Background(), nil)
	require.NoError(t, err)
	defer rt.Close()

	require.NotNil(t, rt.Service)
	assert.IsType(t, &memorystorage.Backend{}, rt.Primary)
	assert.IsType(t, &memorycache.Cache{}, rt.Cache)
	assert.Nil(t, rt.Staging)

	// generate through the assembled service
	primary := rt.Primary.(*memorystorage.Backend)
	require.NoError(t, primary.Upload(context.Background(), "images/cat.jpg", bytes.NewReader(testutil.JPEG(t, 400, 200))))
	u := rt.Service.URL(context.Background(), imageresize.Request{Path: "images/cat.jpg", Width: 200, Height: 100})
	assert.Equal(t, "http://cdn.test/resized/images/fit/200x100/cat.jpg", u)
}

func TestBuildService_FilesystemWithStaging(t *testing.T) {
	primaryDir := t.TempDir()
	stagingDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(stagingDir, "images"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(stagingDir, "images", "dog.png"), testutil.PNG(t, 100, 100), 0644))

	cfg, err := Load(
		WithPrimaryStorage(FilesystemStorage(primaryDir, "/storage")),
		WithStagingStorage(FilesystemStorage(stagingDir, "/public")),
		WithCache("badger", "", ""),
	)
	require.NoError(t, err)

	rt, err := cfg.BuildService(context.Background(), nil)
	require.NoError(t, err)
	defer rt.Close()

	assert.IsType(t, &fsstorage.Backend{}, rt.Primary)
	assert.IsType(t, &fsstorage.Backend{}, rt.Staging)
	assert.IsType(t, &badgercache.Cache{}, rt.Cache)

	p := rt.Service.StoragePath(context.Background(), imageresize.Request{Path: "images/dog.png", Width: 50})
	assert.Equal(t, "resized/images/fit/50x/dog.png", p)
	assert.FileExists(t, filepath.Join(primaryDir, "images", "dog.png"), "source promoted from staging")
	assert.FileExists(t, filepath.Join(primaryDir, "resized", "images", "fit", "50x", "dog.png"))
}

func TestBuildService_StagingSameAsPrimary(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(
		WithPrimaryStorage(FilesystemStorage(dir, "/storage")),
		WithStagingStorage(FilesystemStorage(dir, "/storage")),
	)
	require.NoError(t, err)

	rt, err := cfg.BuildService(context.Background(), nil)
	require.NoError(t, err)
	defer rt.Close()
	assert.Nil(t, rt.Staging)
}

func TestBuildService_ZeroTTLDisablesCache(t *testing.T) {
	cfg, err := Load(WithCacheTTL(0))
	require.NoError(t, err)

	rt, err := cfg.BuildService(context.Background(), nil)
	require.NoError(t, err)
	defer rt.Close()
	assert.IsType(t, &imageresize.NoopCache{}, rt.Cache)
}

func TestBuildService_ExtensionsFile(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		cfg, err := Load(WithExtensionTable(filepath.Join(t.TempDir(), "nope.yaml")))
		require.NoError(t, err)
		_, err = cfg.BuildService(context.Background(), nil)
		assert.Error(t, err)
	})

	t.Run("merged", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ext.yaml")
		require.NoError(t, os.WriteFile(path, []byte("image/png: png\n"), 0644))
		cfg, err := Load(WithExtensionTable(path))
		require.NoError(t, err)
		rt, err := cfg.BuildService(context.Background(), nil)
		require.NoError(t, err)
		assert.NoError(t, rt.Close())
	})
}
