package image

import (
	xdraw "golang.org/x/image/draw"
)

// InterpolationMode defines how pixels are sampled when a region is drawn at
// a different size.
type InterpolationMode uint8

const (
	// InterpNearest selects the closest pixel (no interpolation).
	// Fast but produces blocky results when scaling.
	InterpNearest InterpolationMode = iota

	// InterpBilinear performs linear interpolation between neighboring pixels.
	InterpBilinear

	// InterpBicubic performs Catmull-Rom cubic interpolation.
	// Highest quality but slower than bilinear.
	InterpBicubic
)

// String returns a string representation of the interpolation mode.
func (m InterpolationMode) String() string {
	switch m {
	case InterpNearest:
		return "Nearest"
	case InterpBilinear:
		return "Bilinear"
	case InterpBicubic:
		return "Bicubic"
	default:
		return "Unknown"
	}
}

// Interpolator returns the x/image/draw scaler for the mode.
// Unknown modes fall back to nearest-neighbor.
func (m InterpolationMode) Interpolator() xdraw.Interpolator {
	switch m {
	case InterpBilinear:
		return xdraw.BiLinear
	case InterpBicubic:
		return xdraw.CatmullRom
	default:
		return xdraw.NearestNeighbor
	}
}

// ModeForSmoothing maps a smoothing toggle onto an interpolation mode:
// smoothing selects the high quality bicubic kernel.
func ModeForSmoothing(smoothing bool) InterpolationMode {
	if smoothing {
		return InterpBicubic
	}
	return InterpNearest
}
