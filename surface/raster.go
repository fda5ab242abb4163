// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"

	intImage "github.com/gogpu/gridcut/internal/image"
)

// RasterName is the registry name of the software backend.
const RasterName = "raster"

// Raster is the pure Go software Surface.
//
// It decodes JPEG, PNG and WebP, resamples with x/image/draw and encodes
// JPEG and PNG. Raster holds no state and is safe for concurrent use.
type Raster struct{}

// NewRaster creates a software surface.
func NewRaster() *Raster {
	return &Raster{}
}

// Decode decodes encoded image bytes into a Bitmap.
func (Raster) Decode(data []byte) (*Bitmap, error) {
	img, err := intImage.Decode(data)
	if err != nil {
		return nil, err
	}
	return NewBitmap(img), nil
}

// DecodeConfig returns the dimensions stored in the image header.
func (Raster) DecodeConfig(data []byte) (width, height int, err error) {
	return intImage.DecodeConfig(data)
}

// Draw renders region of src onto a new Bitmap. Smoothing selects bicubic
// (Catmull-Rom) resampling, otherwise nearest-neighbor.
func (Raster) Draw(src *Bitmap, region Region, opts DrawOptions) (*Bitmap, error) {
	if src == nil || src.Pixels == nil {
		return nil, fmt.Errorf("surface: draw: %w", intImage.ErrInvalidDimensions)
	}

	img, err := intImage.DrawRegion(
		src.Pixels,
		intImage.Rect{X: region.X, Y: region.Y, Width: region.Width, Height: region.Height},
		opts.Width,
		opts.Height,
		intImage.ModeForSmoothing(opts.Smoothing),
	)
	if err != nil {
		return nil, fmt.Errorf("surface: draw: %w", err)
	}
	return NewBitmap(img), nil
}

// Encode encodes b in the given format.
func (Raster) Encode(b *Bitmap, format Format, quality float64) ([]byte, error) {
	if b == nil || b.Pixels == nil {
		return nil, fmt.Errorf("surface: encode: %w", intImage.ErrInvalidDimensions)
	}

	var codec intImage.Codec
	switch format {
	case FormatJPEG:
		codec = intImage.CodecJPEG
	case FormatPNG:
		codec = intImage.CodecPNG
	default:
		return nil, fmt.Errorf("surface: encode %s: %w", format, intImage.ErrUnsupportedFormat)
	}

	return intImage.EncodeToBytes(b.Pixels, codec, quality)
}

// Compile-time interface checks.
var (
	_ Surface       = Raster{}
	_ ConfigDecoder = Raster{}
)
