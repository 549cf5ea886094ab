package memory_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-resize/pkg/imageresize"
	memorystorage "github.com/tendant/simple-resize/pkg/imageresize/storage/memory"
	"github.com/tendant/simple-resize/pkg/imageresize/urlstrategy"
)

func TestMemoryBackend(t *testing.T) {
	stamp := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	backend := memorystorage.New(memorystorage.Config{
		URLPrefix: "http://cdn.test/",
		Now:       func() time.Time { return stamp },
	})
	ctx := context.Background()
	testKey := "images/cat.jpg"
	testData := "not really a jpeg"

	t.Run("Upload", func(t *testing.T) {
		err := backend.Upload(ctx, testKey, strings.NewReader(testData))
		assert.NoError(t, err)
	})

	t.Run("GetObjectMeta", func(t *testing.T) {
		meta, err := backend.GetObjectMeta(ctx, testKey)
		require.NoError(t, err)
		assert.Equal(t, testKey, meta.Key)
		assert.Equal(t, int64(len(testData)), meta.Size)
		assert.Equal(t, "application/octet-stream", meta.ContentType)
		assert.Equal(t, stamp, meta.Timestamp)
	})

	t.Run("Exists", func(t *testing.T) {
		ok, err := backend.Exists(ctx, testKey)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = backend.Exists(ctx, "missing.jpg")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Download", func(t *testing.T) {
		reader, err := backend.Download(ctx, testKey)
		require.NoError(t, err)
		defer reader.Close()

		data, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, testData, string(data))
	})

	t.Run("UploadWithParams", func(t *testing.T) {
		params := imageresize.UploadParams{
			ObjectKey:    "images/dog.png",
			MimeType:     "image/png",
			CacheControl: "public, max-age=60",
			Public:       true,
		}
		require.NoError(t, backend.UploadWithParams(ctx, strings.NewReader(testData), params))

		meta, err := backend.GetObjectMeta(ctx, params.ObjectKey)
		require.NoError(t, err)
		assert.Equal(t, "image/png", meta.ContentType)

		stored, ok := backend.Params(params.ObjectKey)
		require.True(t, ok)
		assert.Equal(t, params, stored)
	})

	t.Run("Touch", func(t *testing.T) {
		later := stamp.Add(time.Hour)
		require.NoError(t, backend.Touch(testKey, later))
		meta, err := backend.GetObjectMeta(ctx, testKey)
		require.NoError(t, err)
		assert.Equal(t, later, meta.Timestamp)
	})

	t.Run("PublicURL", func(t *testing.T) {
		assert.Equal(t, urlstrategy.KindMemory, backend.Kind())
		u, err := backend.PublicURL(testKey)
		require.NoError(t, err)
		assert.Equal(t, "http://cdn.test/images/cat.jpg", u)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, backend.Delete(ctx, testKey))
		_, err := backend.GetObjectMeta(ctx, testKey)
		assert.ErrorIs(t, err, imageresize.ErrObjectNotFound)
		_, err = backend.Download(ctx, testKey)
		assert.ErrorIs(t, err, imageresize.ErrObjectNotFound)
		assert.ErrorIs(t, backend.Delete(ctx, testKey), imageresize.ErrObjectNotFound)
	})

	t.Run("Keys", func(t *testing.T) {
		assert.Equal(t, []string{"images/dog.png"}, backend.Keys("images/"))
		assert.Empty(t, backend.Keys("resized/"))
	})
}

func TestMemoryBackend_NoURLPrefix(t *testing.T) {
	backend := memorystorage.New(memorystorage.Config{})
	_, err := backend.PublicURL("a.jpg")
	assert.Error(t, err)
}
