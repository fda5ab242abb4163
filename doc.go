// Package gridcut cuts raster images into grids of tiles and bundles the
// tiles into a zip archive.
//
// # Overview
//
// Uploads pass through a fixed pipeline:
//
//	File -> Validator -> Normalizer -> ImageRecord -> Splitter -> []TileRecord -> Archiver -> Package
//
// The Validator checks the media type and size of an upload. The Normalizer
// decodes it, fits it inside a bounding box (3840x2160 by default, never
// upscaling) and re-encodes it as JPEG or PNG. The Splitter cuts a normalized
// image into X x Y equal tiles in row-major order, dropping the right and
// bottom remainder. The Archiver DEFLATE-compresses the tiles into a zip.
//
// The session package sequences these steps for an interactive collection of
// images.
//
// # Quick Start
//
//	import "github.com/gogpu/gridcut"
//
//	cfg := gridcut.DefaultConfig()
//	surf, _ := cfg.NewSurface()
//
//	rec, err := gridcut.NewNormalizer(surf, cfg.Processing).Normalize(ctx, file)
//	if err != nil {
//	    return err
//	}
//	tiles, err := gridcut.NewSplitter(surf, cfg.Processing).Split(ctx, *rec, gridcut.Grid{X: 3, Y: 3})
//	if err != nil {
//	    return err
//	}
//	pkg, err := gridcut.NewArchiver().Archive(ctx, tiles, gridcut.ArchiveOptions{GroupByImage: true})
//
// # Surfaces
//
// Decoding, drawing and encoding go through a surface.Surface. The pure Go
// raster backend is registered by default; Config.Surface selects another
// registered backend by name.
//
// # Errors
//
// Failures scoped to one file or tile are *FileError values whose Kind is
// one of the Err* sentinels, so errors.Is(err, gridcut.ErrDecode) works.
package gridcut

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
