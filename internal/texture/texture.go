// Package texture resolves a texture source (file path or URL) into a decoded, size-capped image.
// Decoding happens off the loop goroutine; the renderer only uploads the result.
package texture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"box-scene/internal/download"
	"box-scene/internal/engineconfig"

	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DefaultMaxSize is the largest texture edge uploaded to the GPU; bigger images are downscaled.
const DefaultMaxSize = 2048

// CacheDir is where URL sources are downloaded.
const CacheDir = "assets/textures/downloaded"

var (
	// ErrNotImage is returned when the source bytes are not a recognised image format.
	ErrNotImage = errors.New("texture: not an image")
	// ErrTooLarge is returned when the encoded source exceeds download.MaxBytes.
	ErrTooLarge = errors.New("texture: source too large")
)

// Options controls Load.
type Options struct {
	MaxSize  int
	CacheDir string
}

func (o Options) withDefaults() Options {
	if o.MaxSize <= 0 {
		o.MaxSize = DefaultMaxSize
	}
	if o.CacheDir == "" {
		o.CacheDir = CacheDir
	}
	return o
}

// IsURL reports whether src should be fetched over HTTP.
func IsURL(src string) bool {
	s := strings.ToLower(src)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Load resolves src into an image. URLs are downloaded into the cache dir first; paths may start with ~.
func Load(ctx context.Context, src string, opts Options) (image.Image, error) {
	opts = opts.withDefaults()
	path := src
	if IsURL(src) {
		p, err := download.Download(ctx, src, opts.CacheDir)
		if err != nil {
			if errors.Is(err, download.ErrTooLarge) {
				return nil, fmt.Errorf("%w: %s", ErrTooLarge, src)
			}
			return nil, fmt.Errorf("texture: %w", err)
		}
		path = p
	} else {
		p, err := engineconfig.ExpandPath(src)
		if err != nil {
			return nil, fmt.Errorf("texture: %w", err)
		}
		path = filepath.Clean(p)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	if len(data) > download.MaxBytes {
		return nil, fmt.Errorf("%w: %s", ErrTooLarge, path)
	}
	return Decode(data, opts.MaxSize)
}

// Decode sniffs and decodes image bytes and scales the result down so neither edge exceeds maxSize.
func Decode(data []byte, maxSize int) (image.Image, error) {
	if !filetype.IsImage(data) {
		return nil, ErrNotImage
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("texture: decode: %w", err)
	}
	return Fit(img, maxSize), nil
}

// Fit returns img unchanged if it fits in maxSize×maxSize, otherwise a copy scaled to fit
// with its aspect ratio preserved.
func Fit(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}
	if w >= h {
		h = max(1, h*maxSize/w)
		w = maxSize
	} else {
		w = max(1, w*maxSize/h)
		h = maxSize
	}
	return transform.Resize(img, w, h, transform.Linear)
}
