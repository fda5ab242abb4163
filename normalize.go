package gridcut

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/gridcut/surface"
)

// Normalizer decodes uploads, fits them inside the configured bounding box
// and re-encodes them into the canonical format.
//
// A Normalizer is safe for concurrent use.
type Normalizer struct {
	surf surface.Surface
	opts ProcessingOptions
	ids  *idSource
}

// NewNormalizer creates a Normalizer drawing on surf with the given default
// options.
func NewNormalizer(surf surface.Surface, opts ProcessingOptions) *Normalizer {
	return &Normalizer{surf: surf, opts: opts, ids: newIDSource()}
}

// Options returns the default processing options.
func (n *Normalizer) Options() ProcessingOptions {
	return n.opts
}

// Normalize turns f into an ImageRecord. Per-call options override the
// defaults.
//
// Decode, draw and encode failures are returned as a *FileError of kind
// ErrDecode.
func (n *Normalizer) Normalize(ctx context.Context, f File, opts ...Option) (*ImageRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o := n.opts.With(opts...)
	if err := o.Validate(); err != nil {
		return nil, err
	}

	name := NormalizeName(f.Name)

	src, err := n.surf.Decode(f.Data)
	if err != nil {
		return nil, newFileError(name, ErrDecode, "", err)
	}
	if src.Width <= 0 || src.Height <= 0 {
		return nil, newFileError(name, ErrDecode, fmt.Sprintf("empty image %dx%d", src.Width, src.Height), nil)
	}

	width, height := FitWithin(src.Width, src.Height, o.MaxWidth, o.MaxHeight)

	dst, err := n.surf.Draw(src, surface.FullRegion(src), surface.DrawOptions{
		Width:     width,
		Height:    height,
		Smoothing: o.Smoothing,
	})
	if err != nil {
		return nil, newFileError(name, ErrDecode, "draw", err)
	}

	data, err := n.surf.Encode(dst, o.Format, o.Quality)
	if err != nil {
		return nil, newFileError(name, ErrDecode, "encode "+o.Format.String(), err)
	}

	rec := &ImageRecord{
		ID:           n.ids.next(),
		Name:         name,
		Format:       o.Format,
		Data:         data,
		Width:        width,
		Height:       height,
		OriginalSize: f.Size,
		Digest:       digest(data),
	}

	Logger().Debug("gridcut: normalized image",
		"name", name,
		"id", rec.ID,
		"source", fmt.Sprintf("%dx%d", src.Width, src.Height),
		"size", fmt.Sprintf("%dx%d", width, height),
		"bytes", len(data))

	return rec, nil
}

// NormalizeAll normalizes files concurrently. Results and errors are
// returned in input order: for every index exactly one of records[i] and
// errs[i] is non-nil. One failure never aborts the others.
func (n *Normalizer) NormalizeAll(ctx context.Context, files []File, opts ...Option) ([]*ImageRecord, []error) {
	records := make([]*ImageRecord, len(files))
	errs := make([]error, len(files))

	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, f := range files {
		eg.Go(func() error {
			records[i], errs[i] = n.Normalize(ctx, f, opts...)
			return nil
		})
	}
	_ = eg.Wait()

	return records, errs
}

// FitWithin returns the size of a width x height image scaled uniformly to
// fit inside maxWidth x maxHeight. Images that already fit are returned
// unchanged. The scale is min(maxWidth/width, maxHeight/height), both
// results are floored and never drop below 1.
func FitWithin(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}

	w, h := int64(width), int64(height)
	mw, mh := int64(maxWidth), int64(maxHeight)

	var nw, nh int64
	if mw*h <= mh*w {
		nw = mw
		nh = h * mw / w
	} else {
		nw = w * mh / h
		nh = mh
	}
	return int(max(nw, 1)), int(max(nh, 1))
}

// idSource issues time-ordered ULIDs.
type idSource struct {
	mu      sync.Mutex
	entropy io.Reader
}

func newIDSource() *idSource {
	return &idSource{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (s *idSource) next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}
