package imageresize

import (
	"context"

	"github.com/tendant/simple-resize/pkg/imageresize/urlstrategy"
)

// Default placeholder assets
const (
	DefaultVideoPlaceholder = "/vendor/image-resize/images/placeholders/video.svg"
	DefaultFilePlaceholder  = "/vendor/image-resize/images/placeholders/file.svg"
)

var (
	rasterExtensions = map[string]bool{"jpg": true, "jpeg": true, "png": true, "gif": true}
	videoExtensions  = map[string]bool{"mp4": true, "webm": true}
)

// IsRaster reports whether ext names a format the transform engine handles
func IsRaster(ext string) bool {
	return rasterExtensions[ext]
}

// placeholders returns stand-in URLs for sources that cannot be transformed
type placeholders struct {
	video string
	file  string
	urls  URLResolver
	store Backend
}

// placeholderFor returns the video placeholder for video containers, the
// original asset's URL for SVG and the generic file placeholder otherwise
func (p *placeholders) placeholderFor(ctx context.Context, ext, originalPath string, secure bool) (string, error) {
	var u string
	switch {
	case videoExtensions[ext]:
		u = p.video
	case ext == "svg":
		return p.urls.URLFor(ctx, p.store, originalPath, secure)
	default:
		u = p.file
	}
	if secure {
		u = urlstrategy.Secure(u)
	}
	return u, nil
}
