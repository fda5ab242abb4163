// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"fmt"
	"image"
	"strings"
)

// Surface is the image rendering capability.
//
// Implementations must be safe for concurrent use: the pipeline decodes,
// draws and encodes independent images and tiles from several goroutines.
// Bitmaps handed to a Surface are never modified by it.
type Surface interface {
	// Decode decodes encoded image bytes into a Bitmap.
	Decode(data []byte) (*Bitmap, error)

	// Draw renders region of src onto a new Bitmap of opts.Width x
	// opts.Height, resampling when the sizes differ.
	Draw(src *Bitmap, region Region, opts DrawOptions) (*Bitmap, error)

	// Encode encodes b in the given format. Quality is in [0, 1] and is
	// ignored by lossless formats.
	Encode(b *Bitmap, format Format, quality float64) ([]byte, error)
}

// ConfigDecoder is an optional interface for surfaces that can read image
// dimensions without decoding pixel data.
type ConfigDecoder interface {
	// DecodeConfig returns the dimensions stored in the image header.
	DecodeConfig(data []byte) (width, height int, err error)
}

// Bitmap is a decoded image.
type Bitmap struct {
	Width  int
	Height int

	// Pixels holds the image data, anchored at (0, 0).
	Pixels *image.RGBA
}

// NewBitmap wraps an RGBA image.
func NewBitmap(img *image.RGBA) *Bitmap {
	b := img.Bounds()
	return &Bitmap{Width: b.Dx(), Height: b.Dy(), Pixels: img}
}

// Region represents a rectangular area of a Bitmap in pixel coordinates.
type Region struct {
	X, Y          int // Top-left corner
	Width, Height int // Dimensions
}

// FullRegion returns the region covering all of b.
func FullRegion(b *Bitmap) Region {
	return Region{Width: b.Width, Height: b.Height}
}

// DrawOptions controls a Draw call.
type DrawOptions struct {
	// Width and Height are the destination dimensions.
	Width, Height int

	// Smoothing enables high quality interpolation when resampling.
	// Without it the nearest source pixel is used.
	Smoothing bool
}

// Format is an encoded image format.
type Format uint8

const (
	// FormatJPEG is JPEG ("image/jpeg").
	FormatJPEG Format = iota

	// FormatPNG is PNG ("image/png").
	FormatPNG

	// FormatWebP is WebP ("image/webp"). The raster backend decodes it only.
	FormatWebP
)

// ErrUnknownFormat is returned when a format name or media type is not
// recognized.
var ErrUnknownFormat = errors.New("surface: unknown format")

// String returns the short format name.
func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	case FormatWebP:
		return "webp"
	default:
		return "unknown"
	}
}

// MediaType returns the MIME type of the format.
func (f Format) MediaType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	case FormatWebP:
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatPNG:
		return ".png"
	case FormatWebP:
		return ".webp"
	default:
		return ""
	}
}

// ParseFormat parses a format from a short name ("jpg", "png"), a media type
// ("image/png") or an extension (".webp"). Matching is case-insensitive.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "image/")
	name = strings.TrimPrefix(name, ".")

	switch name {
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
