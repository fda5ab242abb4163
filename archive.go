package gridcut

import (
	"bytes"
	"context"
	"fmt"
	"hash/crc32"
	"runtime"
	"sync"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"golang.org/x/sync/errgroup"
)

// archiveLevel is the fixed DEFLATE level for archive entries.
const archiveLevel = 6

// ArchiveOptions control Archive.
type ArchiveOptions struct {
	// GroupByImage places each tile under a folder named after the tile
	// name's first underscore-separated token.
	GroupByImage bool

	// Progress, when set, is called after each tile is packaged with the
	// completed fraction in (0, 1]. Calls are serialized and the fraction
	// never decreases.
	Progress func(fraction float64)
}

// Package is a finished archive.
type Package struct {
	// Data is the zip archive.
	Data []byte

	// Paths lists the archived entry paths in write order.
	Paths []string

	// Skipped holds one ErrTilePackaging error per tile left out.
	Skipped []error
}

// Archiver bundles tiles into a zip archive.
//
// An Archiver is stateless and safe for concurrent use.
type Archiver struct{}

// NewArchiver creates an Archiver.
func NewArchiver() *Archiver {
	return &Archiver{}
}

// entry is one tile prepared for the archive.
type entry struct {
	path       string
	compressed []byte
	crc        uint32
	size       uint64
	err        error
}

// Archive compresses tiles concurrently, then writes them in input order.
//
// A tile without data, or whose path repeats an earlier tile's, is logged
// and reported in Package.Skipped; the rest of the archive is unaffected.
// Only context cancellation fails the whole call.
func (a *Archiver) Archive(ctx context.Context, tiles []TileRecord, opts ArchiveOptions) (*Package, error) {
	entries := make([]entry, len(tiles))
	seen := make(map[string]bool, len(tiles))
	for i, t := range tiles {
		entries[i].path = archivePath(t, opts.GroupByImage)
		switch {
		case len(t.Data) == 0:
			entries[i].err = newFileError(t.Name, ErrTilePackaging, "no data", nil)
		case seen[entries[i].path]:
			entries[i].err = newFileError(t.Name, ErrTilePackaging, "duplicate path "+entries[i].path, nil)
		default:
			seen[entries[i].path] = true
		}
	}

	var (
		mu        sync.Mutex
		completed int
		total     = len(tiles)
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i := range tiles {
		e := &entries[i]
		if e.err != nil {
			continue
		}
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			compressed, err := deflate(tiles[i].Data)
			if err != nil {
				e.err = newFileError(tiles[i].Name, ErrTilePackaging, "deflate", err)
				return nil
			}
			e.compressed = compressed
			e.crc = crc32.ChecksumIEEE(tiles[i].Data)
			e.size = uint64(len(tiles[i].Data))

			mu.Lock()
			completed++
			if opts.Progress != nil {
				opts.Progress(float64(completed) / float64(total))
			}
			mu.Unlock()

			Logger().Debug("gridcut: packaged tile", "path", e.path, "bytes", e.size)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	pkg := &Package{}
	modified := time.Now()

	for i := range entries {
		e := &entries[i]
		if e.err != nil {
			Logger().Warn("gridcut: skipped tile", "tile", tiles[i].Name, "err", e.err)
			pkg.Skipped = append(pkg.Skipped, e.err)
			continue
		}

		w, err := zw.CreateRaw(&zip.FileHeader{
			Name:               e.path,
			Method:             zip.Deflate,
			Modified:           modified,
			CRC32:              e.crc,
			CompressedSize64:   uint64(len(e.compressed)),
			UncompressedSize64: e.size,
		})
		if err != nil {
			return nil, fmt.Errorf("gridcut: archive %s: %w", e.path, err)
		}
		if _, err := w.Write(e.compressed); err != nil {
			return nil, fmt.Errorf("gridcut: archive %s: %w", e.path, err)
		}
		pkg.Paths = append(pkg.Paths, e.path)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gridcut: close archive: %w", err)
	}
	pkg.Data = buf.Bytes()

	Logger().Info("gridcut: archived tiles",
		"entries", len(pkg.Paths),
		"skipped", len(pkg.Skipped),
		"bytes", len(pkg.Data))

	return pkg, nil
}

// archivePath returns the entry path of t.
func archivePath(t TileRecord, grouped bool) string {
	if grouped {
		return folderToken(t.Name) + "/" + t.Name
	}
	return t.Name
}

func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, archiveLevel)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
