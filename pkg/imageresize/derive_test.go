package imageresize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivePath(t *testing.T) {
	tests := []struct {
		name   string
		root   string
		source string
		action string
		w, h   int
		want   string
	}{
		{"nested source", "resized", "images/cat.jpg", "fit", 200, 100, "resized/images/fit/200x100/cat.jpg"},
		{"no directory", "resized", "cat.jpg", "fit", 200, 100, "resized/fit/200x100/cat.jpg"},
		{"leading slash", "/resized/", "/images/2024/cat.jpg", "resize", 50, 60, "resized/images/2024/resize/50x60/cat.jpg"},
		{"root-level slash", "resized", "/cat.png", "fit", 10, 10, "resized/fit/10x10/cat.png"},
		{"missing width", "resized", "a/b.gif", "resize", 0, 100, "resized/a/resize/x100/b.gif"},
		{"missing height", "resized", "a/b.gif", "resize", 100, -1, "resized/a/resize/100x/b.gif"},
		{"empty root", "", "a/b.gif", "fit", 1, 2, "a/fit/1x2/b.gif"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DerivePath(tt.root, tt.source, tt.action, tt.w, tt.h)
			assert.Equal(t, tt.want, got)
			// deterministic
			assert.Equal(t, got, DerivePath(tt.root, tt.source, tt.action, tt.w, tt.h))
		})
	}
}

func TestReplaceExtension(t *testing.T) {
	assert.Equal(t, "resized/fit/1x1/cat.png", ReplaceExtension("resized/fit/1x1/cat.jpg", "png"))
	assert.Equal(t, "resized/fit/1x1/cat.jpg", ReplaceExtension("resized/fit/1x1/cat.JPG", ".jpg"))
	assert.Equal(t, "cat.gif", ReplaceExtension("cat", "gif"))
	assert.Equal(t, "a.b/cat.tar.gz", ReplaceExtension("a.b/cat.tar.bz2", "gz"))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "jpg", Extension("images/Cat.JPG"))
	assert.Equal(t, "", Extension("images/cat"))
	assert.Equal(t, "svg", Extension("icon.svg"))
}
