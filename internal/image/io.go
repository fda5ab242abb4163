// Package image provides the codec and resampling primitives behind the
// gridcut software surface.
package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	// Registers the WebP decoder with image.Decode.
	_ "golang.org/x/image/webp"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the image format is not supported.
	ErrUnsupportedFormat = errors.New("image: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("image: empty data")
)

// Codec identifies an encoded image container.
type Codec uint8

const (
	// CodecJPEG is baseline JPEG.
	CodecJPEG Codec = iota

	// CodecPNG is lossless PNG.
	CodecPNG

	// CodecWebP is WebP. Decode only.
	CodecWebP
)

// String returns the codec name as reported by image.Decode.
func (c Codec) String() string {
	switch c {
	case CodecJPEG:
		return "jpeg"
	case CodecPNG:
		return "png"
	case CodecWebP:
		return "webp"
	default:
		return "unknown"
	}
}

// Decode decodes an image from data, auto-detecting the format, and returns
// it as an RGBA image with its origin at (0, 0).
func Decode(data []byte) (*image.RGBA, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}

	return ToRGBA(img), nil
}

// DecodeConfig reads only the image header and returns its dimensions.
func DecodeConfig(data []byte) (width, height int, err error) {
	if len(data) == 0 {
		return 0, 0, ErrEmptyData
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("image: decode config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// ToRGBA converts any image to *image.RGBA anchored at the origin.
// An RGBA image already anchored at the origin is returned as is.
func ToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && bounds.Min == (image.Point{}) {
		return rgba
	}

	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

// Encode writes img to w in the given codec. Quality is in [0, 1] and only
// affects JPEG.
func Encode(w io.Writer, img image.Image, codec Codec, quality float64) error {
	switch codec {
	case CodecJPEG:
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality(quality)}); err != nil {
			return fmt.Errorf("image: encode JPEG: %w", err)
		}
		return nil

	case CodecPNG:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("image: encode PNG: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("%w: cannot encode %s", ErrUnsupportedFormat, codec)
	}
}

// EncodeToBytes encodes img and returns the bytes.
func EncodeToBytes(img image.Image, codec Codec, quality float64) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, codec, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JPEGQuality maps a fidelity in [0, 1] onto the JPEG quality scale (1-100).
func JPEGQuality(q float64) int {
	quality := int(math.Round(q * 100))
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}
	return quality
}
