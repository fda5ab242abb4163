package image

import (
	"errors"
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// ErrInvalidDimensions is returned when width or height is non-positive.
var ErrInvalidDimensions = errors.New("image: invalid dimensions")

// ErrOutOfBounds is returned when a source rectangle leaves the image.
var ErrOutOfBounds = errors.New("image: rectangle out of bounds")

// Rect represents a rectangular region in pixel coordinates.
type Rect struct {
	X, Y          int // Top-left corner
	Width, Height int // Dimensions
}

// Rectangle converts r to an image.Rectangle.
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// DrawRegion renders the src region of img onto a new width x height RGBA
// image.
//
// When the region and the destination have the same size the pixels are
// copied exactly; otherwise the region is resampled with the given mode.
func DrawRegion(img *image.RGBA, src Rect, width, height int, mode InterpolationMode) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || src.Empty() {
		return nil, ErrInvalidDimensions
	}

	srcRect := src.Rectangle()
	if !srcRect.In(img.Bounds()) {
		return nil, ErrOutOfBounds
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))

	if src.Width == width && src.Height == height {
		draw.Draw(dst, dst.Bounds(), img, srcRect.Min, draw.Src)
		return dst, nil
	}

	mode.Interpolator().Scale(dst, dst.Bounds(), img, srcRect, xdraw.Src, nil)
	return dst, nil
}
