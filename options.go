package gridcut

import (
	"fmt"

	"github.com/gogpu/gridcut/surface"
)

// Default processing values.
const (
	DefaultQuality   = 1.0
	DefaultMaxWidth  = 3840 // 4K UHD
	DefaultMaxHeight = 2160
)

// ProcessingOptions control normalization and tile encoding.
type ProcessingOptions struct {
	// Format is the canonical encode format for images and tiles.
	Format surface.Format `yaml:"format"`

	// Quality is the encode fidelity in [0, 1].
	Quality float64 `yaml:"quality"`

	// MaxWidth and MaxHeight bound normalized images. Larger images are
	// scaled down uniformly; smaller ones are never scaled up.
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`

	// Smoothing enables high quality interpolation for resize and draw.
	Smoothing bool `yaml:"smoothing"`
}

// DefaultProcessingOptions returns JPEG at full quality bounded by 3840x2160
// with smoothing enabled.
func DefaultProcessingOptions() ProcessingOptions {
	return ProcessingOptions{
		Format:    surface.FormatJPEG,
		Quality:   DefaultQuality,
		MaxWidth:  DefaultMaxWidth,
		MaxHeight: DefaultMaxHeight,
		Smoothing: true,
	}
}

// Validate reports whether the options are usable.
func (o ProcessingOptions) Validate() error {
	if o.Quality < 0 || o.Quality > 1 {
		return fmt.Errorf("%w: quality %v outside [0, 1]", ErrInvalidOptions, o.Quality)
	}
	if o.MaxWidth <= 0 || o.MaxHeight <= 0 {
		return fmt.Errorf("%w: max size %dx%d must be positive", ErrInvalidOptions, o.MaxWidth, o.MaxHeight)
	}
	if o.Format != surface.FormatJPEG && o.Format != surface.FormatPNG {
		return fmt.Errorf("%w: cannot encode %s", ErrInvalidOptions, o.Format)
	}
	return nil
}

// With returns a copy of o with the given overrides applied.
func (o ProcessingOptions) With(opts ...Option) ProcessingOptions {
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Option overrides a processing option for a single call.
//
// Example:
//
//	tiles, err := splitter.Split(ctx, img, gridcut.Grid{X: 4, Y: 4},
//	    gridcut.WithQuality(0.8),
//	    gridcut.WithSmoothing(false),
//	)
type Option func(*ProcessingOptions)

// WithQuality sets the encode quality.
func WithQuality(q float64) Option {
	return func(o *ProcessingOptions) {
		o.Quality = q
	}
}

// WithMaxSize sets the normalization bounding box.
func WithMaxSize(width, height int) Option {
	return func(o *ProcessingOptions) {
		o.MaxWidth = width
		o.MaxHeight = height
	}
}

// WithSmoothing toggles interpolation.
func WithSmoothing(enabled bool) Option {
	return func(o *ProcessingOptions) {
		o.Smoothing = enabled
	}
}

// WithFormat sets the canonical encode format.
func WithFormat(f surface.Format) Option {
	return func(o *ProcessingOptions) {
		o.Format = f
	}
}

// WithOptions replaces every processing option with o.
func WithOptions(o ProcessingOptions) Option {
	return func(dst *ProcessingOptions) {
		*dst = o
	}
}
