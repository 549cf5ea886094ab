package badger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-resize/pkg/imageresize"
	badgercache "github.com/tendant/simple-resize/pkg/imageresize/cache/badger"
)

var _ imageresize.Cache = (*badgercache.Cache)(nil)

func TestCache_InMemory(t *testing.T) {
	c, err := badgercache.Open("")
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	ts := time.Date(2024, 2, 3, 4, 5, 6, 7, time.UTC)

	_, ok, err := c.Get(ctx, "images/cat.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "images/cat.jpg", ts, time.Hour))
	got, ok, err := c.Get(ctx, "images/cat.jpg")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, ts.Equal(got))

	require.NoError(t, c.Delete(ctx, "images/cat.jpg"))
	_, ok, err = c.Get(ctx, "images/cat.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "zero", ts, 0))
	_, ok, _ = c.Get(ctx, "zero")
	assert.False(t, ok)
}

func TestCache_Persistent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	ts := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)

	c, err := badgercache.Open(dir)
	require.NoError(t, err)
	require.NoError(t, c.Put(ctx, "images/cat.jpg", ts, time.Hour))
	require.NoError(t, c.Close())

	c, err = badgercache.Open(dir)
	require.NoError(t, err)
	defer c.Close()

	got, ok, err := c.Get(ctx, "images/cat.jpg")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, ts.Equal(got))
}

func TestCache_Expiry(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping expiry test in short mode")
	}
	c, err := badgercache.Open("")
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Put(ctx, "k", time.Now(), time.Second))
	time.Sleep(2100 * time.Millisecond)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
