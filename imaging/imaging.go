// Package imaging resolves image references into decoded dimensions and raw
// bytes for the layout engine and the PDF writer.
package imaging

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrEmptyRef is returned for a blank image reference
	ErrEmptyRef = errors.New("empty image reference")

	// ErrUnsupportedFormat is returned when the bytes are not a known image format
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrTooLarge is returned when an image exceeds the configured byte limit
	ErrTooLarge = errors.New("image too large")

	// ErrUnknownScheme is returned by Mux for references it has no resolver for
	ErrUnknownScheme = errors.New("no resolver for reference scheme")
)

// Image is a decoded image reference
type Image struct {
	Width  int
	Height int
	Format string // "png", "jpeg", "gif", "webp", "bmp" or "tiff"
	Bytes  []byte
}

// Resolver turns an image reference into an Image
type Resolver interface {
	Resolve(ctx context.Context, ref string) (Image, error)
}

// ResolverFunc adapts a function to Resolver
type ResolverFunc func(ctx context.Context, ref string) (Image, error)

func (f ResolverFunc) Resolve(ctx context.Context, ref string) (Image, error) {
	return f(ctx, ref)
}

// Decode reads the dimensions and format of data without decoding pixels
func Decode(data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, ErrUnsupportedFormat
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Image{}, ErrUnsupportedFormat
		}
		return Image{}, fmt.Errorf("decoding image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Image{}, fmt.Errorf("image has no area: %dx%d", cfg.Width, cfg.Height)
	}
	return Image{Width: cfg.Width, Height: cfg.Height, Format: format, Bytes: data}, nil
}

// Resolved is the outcome of resolving one reference. Exactly one of Image
// and Err is meaningful.
type Resolved struct {
	Ref   string
	Image Image
	Err   error
}

// OK reports whether the reference resolved to a usable image
func (r Resolved) OK() bool {
	return r.Err == nil && r.Image.Width > 0 && r.Image.Height > 0
}

// Digest returns a stable fingerprint of the outcome, used in cache keys
func (r Resolved) Digest() string {
	h := sha256.New()
	h.Write([]byte(r.Ref))
	if r.OK() {
		h.Write([]byte{1})
		h.Write(r.Image.Bytes)
	} else {
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Failed builds a failed outcome for ref
func Failed(ref string, err error) Resolved {
	return Resolved{Ref: ref, Err: err}
}
