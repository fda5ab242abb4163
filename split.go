package gridcut

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/gridcut/internal/cache"
	"github.com/gogpu/gridcut/surface"
)

// Splitter cuts a normalized image into an X x Y grid of tiles.
//
// A Splitter is safe for concurrent use.
type Splitter struct {
	surf    surface.Surface
	opts    ProcessingOptions
	bitmaps *cache.Cache[string, *surface.Bitmap]
}

// SplitterOption configures a Splitter.
type SplitterOption func(*Splitter)

// WithDecodeCache keeps up to budget bytes of decoded pixels, keyed by image
// digest, so repeated splits of one image decode it once.
func WithDecodeCache(budget ByteSize) SplitterOption {
	return func(s *Splitter) {
		if budget > 0 {
			s.bitmaps = cache.New[string, *surface.Bitmap](int64(budget))
		}
	}
}

// NewSplitter creates a Splitter drawing on surf with the given default
// options.
func NewSplitter(surf surface.Surface, opts ProcessingOptions, sopts ...SplitterOption) *Splitter {
	s := &Splitter{surf: surf, opts: opts}
	for _, opt := range sopts {
		opt(s)
	}
	return s
}

// Split decodes img once and returns grid.X*grid.Y tiles in row-major order.
//
// Every tile is floor(width/X) x floor(height/Y); pixels past the last full
// column or row are dropped. Tiles are encoded in parallel. Either every
// tile is returned or none is.
func (s *Splitter) Split(ctx context.Context, img ImageRecord, grid Grid, opts ...Option) ([]TileRecord, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	o := s.opts.With(opts...)
	if err := o.Validate(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := s.decode(img)
	if err != nil {
		return nil, newFileError(img.Name, ErrDecode, "", err)
	}

	pieceW := src.Width / grid.X
	pieceH := src.Height / grid.Y
	if pieceW < 1 || pieceH < 1 {
		return nil, fmt.Errorf("%w: %s is finer than %dx%d image %q",
			ErrInvalidGrid, grid, src.Width, src.Height, img.Name)
	}

	base := baseName(img.Name)
	ext := o.Format.Extension()
	tiles := make([]TileRecord, grid.Cells())

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for row := 0; row < grid.Y; row++ {
		for col := 0; col < grid.X; col++ {
			pos := Position{Col: col, Row: row}
			idx := row*grid.X + col

			eg.Go(func() error {
				if err := egCtx.Err(); err != nil {
					return err
				}

				name := tileName(base, pos, ext)
				region := surface.Region{X: col * pieceW, Y: row * pieceH, Width: pieceW, Height: pieceH}

				piece, err := s.surf.Draw(src, region, surface.DrawOptions{
					Width:     pieceW,
					Height:    pieceH,
					Smoothing: o.Smoothing,
				})
				if err != nil {
					return newFileError(name, ErrDecode, "draw", err)
				}

				data, err := s.surf.Encode(piece, o.Format, o.Quality)
				if err != nil {
					return newFileError(name, ErrDecode, "encode "+o.Format.String(), err)
				}

				tiles[idx] = TileRecord{
					ID:       tileID(img.ID, pos),
					ImageID:  img.ID,
					Name:     name,
					Format:   o.Format,
					Data:     data,
					Width:    pieceW,
					Height:   pieceH,
					Position: pos,
					Digest:   digest(data),
				}
				return nil
			})
		}
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	Logger().Info("gridcut: split image",
		"name", img.Name,
		"grid", grid.String(),
		"tiles", len(tiles),
		"tile_size", fmt.Sprintf("%dx%d", pieceW, pieceH))

	return tiles, nil
}

// decode returns the decoded pixels of img, from the cache when possible.
// Cached bitmaps are shared and must only be read.
func (s *Splitter) decode(img ImageRecord) (*surface.Bitmap, error) {
	if s.bitmaps == nil || img.Digest == "" {
		return s.surf.Decode(img.Data)
	}
	if b, ok := s.bitmaps.Get(img.Digest); ok {
		return b, nil
	}

	b, err := s.surf.Decode(img.Data)
	if err != nil {
		return nil, err
	}
	cost := int64(b.Width) * int64(b.Height) * 4
	if b.Pixels != nil {
		cost = int64(len(b.Pixels.Pix))
	}
	s.bitmaps.Set(img.Digest, b, cost)
	return b, nil
}
