package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/tsawler/menudoc/core"
	"github.com/tsawler/menudoc/imaging"
	"github.com/tsawler/menudoc/internal/filters"
)

// imageXObject builds the image XObject stream for img. JPEG data is
// embedded unchanged with DCTDecode; everything else is decoded, flattened
// onto white and stored as Flate compressed DeviceRGB.
func imageXObject(img imaging.Image) (*core.Stream, error) {
	if img.Format == "jpeg" {
		if s, ok := jpegXObject(img); ok {
			return s, nil
		}
	}

	decoded, _, err := image.Decode(bytes.NewReader(img.Bytes))
	if err != nil {
		return nil, fmt.Errorf("decoding %s image: %w", img.Format, err)
	}
	b := decoded.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("image has no area: %dx%d", w, h)
	}

	rgb := make([]byte, 0, w*h*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl := overWhite(decoded.At(x, y))
			rgb = append(rgb, r, g, bl)
		}
	}

	dict := imageDict(w, h, "DeviceRGB")
	return core.NewFlateStream(dict, rgb, filters.RowParams(w, 3))
}

// jpegXObject passes JPEG data through. It declines color models it
// cannot describe without decoding.
func jpegXObject(img imaging.Image) (*core.Stream, bool) {
	cfg, err := decodeConfig(img.Bytes)
	if err != nil {
		return nil, false
	}

	var dict core.Dict
	switch cfg.ColorModel {
	case color.GrayModel:
		dict = imageDict(cfg.Width, cfg.Height, "DeviceGray")
	case color.YCbCrModel, color.RGBAModel:
		dict = imageDict(cfg.Width, cfg.Height, "DeviceRGB")
	case color.CMYKModel:
		dict = imageDict(cfg.Width, cfg.Height, "DeviceCMYK")
		// Adobe CMYK JPEGs store inverted samples
		dict["Decode"] = core.Reals(1, 0, 1, 0, 1, 0, 1, 0)
	default:
		return nil, false
	}
	dict["Filter"] = core.Name("DCTDecode")
	return core.NewStream(dict, img.Bytes), true
}

func decodeConfig(data []byte) (image.Config, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	return cfg, err
}

func imageDict(w, h int, colorSpace string) core.Dict {
	return core.Dict{
		"Type":             core.Name("XObject"),
		"Subtype":          core.Name("Image"),
		"Width":            core.Int(w),
		"Height":           core.Int(h),
		"ColorSpace":       core.Name(colorSpace),
		"BitsPerComponent": core.Int(8),
	}
}

// overWhite composites c onto a white background
func overWhite(c color.Color) (uint8, uint8, uint8) {
	r, g, b, a := c.RGBA()
	if a == 0xffff {
		return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
	}
	// RGBA returns alpha-premultiplied 16-bit channels
	white := 0xffff - a
	return uint8((r + white) >> 8), uint8((g + white) >> 8), uint8((b + white) >> 8)
}
