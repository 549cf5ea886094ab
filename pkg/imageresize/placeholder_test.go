package imageresize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-resize/pkg/imageresize/urlstrategy"
)

func TestPlaceholders(t *testing.T) {
	p := &placeholders{
		video: "http://assets.test/video.svg",
		file:  "http://assets.test/file.svg",
		urls:  urlstrategy.New(),
		store: newFakeBackend(),
	}
	ctx := context.Background()

	tests := []struct {
		name   string
		ext    string
		path   string
		secure bool
		want   string
	}{
		{"mp4", "mp4", "clips/a.mp4", false, "http://assets.test/video.svg"},
		{"webm", "webm", "clips/a.webm", false, "http://assets.test/video.svg"},
		{"svg original", "svg", "icons/logo.svg", false, "http://files.test/icons/logo.svg"},
		{"pdf", "pdf", "docs/a.pdf", false, "http://assets.test/file.svg"},
		{"no extension", "", "docs/README", false, "http://assets.test/file.svg"},
		{"secure video", "mp4", "clips/a.mp4", true, "https://assets.test/video.svg"},
		{"secure svg", "svg", "icons/logo.svg", true, "https://files.test/icons/logo.svg"},
		{"secure file", "zip", "a.zip", true, "https://assets.test/file.svg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.placeholderFor(ctx, tt.ext, tt.path, tt.secure)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsRaster(t *testing.T) {
	for _, ext := range []string{"jpg", "jpeg", "png", "gif"} {
		assert.True(t, IsRaster(ext), ext)
	}
	for _, ext := range []string{"svg", "webp", "mp4", "JPG", ""} {
		assert.False(t, IsRaster(ext), ext)
	}
}
