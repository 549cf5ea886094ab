// Package transform decodes, orients, scales and re-encodes raster images.
//
// Both scaling modes preserve the aspect ratio and never upscale. Resize fits
// the image inside the requested box; Fit crops the centre of the image to the
// box's aspect ratio first, so the result fills the box when the source is
// large enough.
package transform

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/nfnt/resize"
)

// DefaultQuality is the encoder quality used for lossy formats
const DefaultQuality = 75

// DefaultMaxPixels caps the decoded size of a source image
const DefaultMaxPixels = 50_000_000

// Mode selects the scaling policy
type Mode string

const (
	ModeFit    Mode = "fit"
	ModeResize Mode = "resize"
)

// Output formats
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatGIF  = "gif"
)

var (
	// ErrUnsupportedFormat is returned when no encoder exists for the requested format
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrImageTooLarge is returned when a source declares more pixels than allowed
	ErrImageTooLarge = errors.New("image too large")
)

// Options describes one transformation
type Options struct {
	Mode    Mode
	Width   int
	Height  int
	Format  string
	Quality int
}

// Engine performs image transformations
type Engine struct {
	Interpolation resize.InterpolationFunction

	// MaxPixels rejects sources whose declared width times height exceeds
	// it; zero means DefaultMaxPixels
	MaxPixels int64
}

// New creates an engine using Lanczos3 resampling
func New() *Engine {
	return &Engine{Interpolation: resize.Lanczos3, MaxPixels: DefaultMaxPixels}
}

// FormatForExtension maps a file extension (without dot) to an output format
func FormatForExtension(ext string) (string, bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpg", "jpeg":
		return FormatJPEG, true
	case "png":
		return FormatPNG, true
	case "gif":
		return FormatGIF, true
	default:
		return "", false
	}
}

// Process decodes data, normalizes its orientation, scales it according to
// opts and encodes the result in opts.Format
func (e *Engine) Process(data []byte, opts Options) ([]byte, error) {
	if opts.Width <= 0 && opts.Height <= 0 {
		return nil, fmt.Errorf("width or height must be positive")
	}
	if opts.Mode != ModeFit && opts.Mode != ModeResize {
		return nil, fmt.Errorf("unsupported mode: %s", opts.Mode)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > e.maxPixels() {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, cfg.Width, cfg.Height, e.maxPixels())
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	img := orient(toNRGBA(src), exifOrientation(data))

	var out image.Image
	switch opts.Mode {
	case ModeFit:
		out = e.fit(img, opts.Width, opts.Height)
	default:
		out = e.resize(img, opts.Width, opts.Height)
	}

	return encode(out, opts.Format, opts.Quality)
}

func (e *Engine) maxPixels() int64 {
	if e == nil || e.MaxPixels <= 0 {
		return DefaultMaxPixels
	}
	return e.MaxPixels
}

func (e *Engine) interpolation() resize.InterpolationFunction {
	if e == nil {
		return resize.Lanczos3
	}
	return e.Interpolation
}

// resize scales img down to fit inside width x height; a non-positive
// dimension leaves that side unconstrained
func (e *Engine) resize(img *image.NRGBA, width, height int) image.Image {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	nw, nh := fitInside(w, h, width, height)
	if nw == w && nh == h {
		return img
	}
	return resize.Resize(uint(nw), uint(nh), img, e.interpolation())
}

// fit crops img to the aspect ratio of the box and scales it down to the box.
// With one dimension missing the box is square.
func (e *Engine) fit(img *image.NRGBA, width, height int) image.Image {
	if width <= 0 {
		width = height
	}
	if height <= 0 {
		height = width
	}

	b := img.Bounds()
	cw, ch := cropToAspect(b.Dx(), b.Dy(), width, height)
	x0 := b.Min.X + (b.Dx()-cw)/2
	y0 := b.Min.Y + (b.Dy()-ch)/2
	cropped := img.SubImage(image.Rect(x0, y0, x0+cw, y0+ch))

	nw, nh := fitInside(cw, ch, width, height)
	if nw == cw && nh == ch {
		return cropped
	}
	return resize.Resize(uint(nw), uint(nh), cropped, e.interpolation())
}

// fitInside returns the largest size no bigger than w x h that fits the box
// while keeping the aspect ratio
func fitInside(w, h, boxW, boxH int) (int, int) {
	scale := 1.0
	if boxW > 0 && boxW < w {
		scale = float64(boxW) / float64(w)
	}
	if boxH > 0 && boxH < h {
		if s := float64(boxH) / float64(h); s < scale {
			scale = s
		}
	}
	if scale >= 1 {
		return w, h
	}
	return max(1, round(float64(w)*scale)), max(1, round(float64(h)*scale))
}

// cropToAspect returns the largest w x h region with the aspect ratio of boxW x boxH
func cropToAspect(w, h, boxW, boxH int) (int, int) {
	target := float64(boxW) / float64(boxH)
	if float64(w)/float64(h) > target {
		return max(1, round(float64(h)*target)), h
	}
	return w, max(1, round(float64(w)/target))
}

func round(f float64) int {
	return int(f + 0.5)
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

func encode(img image.Image, format string, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case FormatJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	case FormatPNG:
		err = png.Encode(&buf, img)
	case FormatGIF:
		err = gif.Encode(&buf, img, nil)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
