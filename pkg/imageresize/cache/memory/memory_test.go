package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-resize/internal/testutil"
	"github.com/tendant/simple-resize/pkg/imageresize"
	"github.com/tendant/simple-resize/pkg/imageresize/cache/memory"
)

var _ imageresize.Cache = (*memory.Cache)(nil)

func TestCache(t *testing.T) {
	clock := testutil.NewClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 0)
	c := memory.New(memory.WithClock(clock.Now))
	ctx := context.Background()
	ts := time.Date(2023, 12, 31, 10, 0, 0, 0, time.UTC)

	t.Run("Miss", func(t *testing.T) {
		_, ok, err := c.Get(ctx, "images/cat.jpg")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("PutGet", func(t *testing.T) {
		require.NoError(t, c.Put(ctx, "images/cat.jpg", ts, time.Hour))
		got, ok, err := c.Get(ctx, "images/cat.jpg")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, ts, got)
	})

	t.Run("Expiry", func(t *testing.T) {
		clock.Advance(time.Hour)
		_, ok, err := c.Get(ctx, "images/cat.jpg")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, c.Put(ctx, "k", ts, time.Hour))
		require.NoError(t, c.Delete(ctx, "k"))
		_, ok, _ := c.Get(ctx, "k")
		assert.False(t, ok)
	})

	t.Run("NonPositiveTTL", func(t *testing.T) {
		require.NoError(t, c.Put(ctx, "k", ts, 0))
		_, ok, _ := c.Get(ctx, "k")
		assert.False(t, ok)
	})

	t.Run("Sweep", func(t *testing.T) {
		require.NoError(t, c.Put(ctx, "a", ts, time.Minute))
		require.NoError(t, c.Put(ctx, "b", ts, time.Hour))
		clock.Advance(2 * time.Minute)
		assert.Equal(t, 1, c.Sweep())
		assert.Equal(t, 1, c.Len())
	})
}
