package gridcut

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/gogpu/gridcut/surface"
)

// File is an uploaded file.
type File struct {
	// Name is the original file name.
	Name string

	// Type is the declared media type, e.g. "image/png".
	Type string

	// Size is the byte size reported for the upload.
	Size int64

	// Data is the file content.
	Data []byte
}

// ImageRecord is one uploaded image after normalization.
//
// Records are values: the collection owner may backfill Width and Height,
// nothing else changes after creation.
type ImageRecord struct {
	// ID is unique and time ordered.
	ID string

	// Name is the NFC-normalized original file name.
	Name string

	// Format and Data hold the canonical encoded representation.
	Format surface.Format
	Data   []byte

	// Width and Height are the post-normalization dimensions.
	Width  int
	Height int

	// OriginalSize is the byte size of the uploaded file.
	OriginalSize int64

	// Digest is the BLAKE3 hex digest of Data.
	Digest string
}

// BaseName returns the image name up to its first dot.
func (r ImageRecord) BaseName() string {
	return baseName(r.Name)
}

// Position is a zero-indexed grid cell.
type Position struct {
	Col int
	Row int
}

// TileRecord is one grid cell of a split image.
type TileRecord struct {
	// ID is "<imageID>_<col>_<row>".
	ID string

	// ImageID is the owning image's ID.
	ImageID string

	// Name is "<imageBaseName>_<col+1>_<row+1><ext>".
	Name string

	Format surface.Format
	Data   []byte

	Width  int
	Height int

	Position Position

	// Digest is the BLAKE3 hex digest of Data.
	Digest string
}

// Grid is a split layout: X columns by Y rows.
type Grid struct {
	X int
	Y int
}

// DefaultGrid is the grid applied automatically after the first upload and
// after removals.
var DefaultGrid = Grid{X: 3, Y: 3}

// DefaultGridPresets are the offered grid sizes.
func DefaultGridPresets() []Grid {
	return []Grid{{X: 2, Y: 2}, {X: 3, Y: 3}, {X: 4, Y: 4}}
}

// Validate reports whether both dimensions are at least 1.
func (g Grid) Validate() error {
	if g.X < 1 || g.Y < 1 {
		return fmt.Errorf("%w: %s", ErrInvalidGrid, g)
	}
	return nil
}

// Cells returns the number of tiles the grid produces.
func (g Grid) Cells() int {
	return g.X * g.Y
}

// String returns the grid as "XxY".
func (g Grid) String() string {
	return strconv.Itoa(g.X) + "x" + strconv.Itoa(g.Y)
}

// ParseGrid parses "XxY" (also "X×Y" and "X*Y"), e.g. "3x3".
func ParseGrid(s string) (Grid, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("×", "x", "*", "x", " ", "").Replace(s)

	xs, ys, ok := strings.Cut(s, "x")
	if !ok {
		return Grid{}, fmt.Errorf("%w: %q is not XxY", ErrInvalidGrid, s)
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return Grid{}, fmt.Errorf("%w: columns %q: %v", ErrInvalidGrid, xs, err)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return Grid{}, fmt.Errorf("%w: rows %q: %v", ErrInvalidGrid, ys, err)
	}

	g := Grid{X: x, Y: y}
	if err := g.Validate(); err != nil {
		return Grid{}, err
	}
	return g, nil
}

// MarshalText implements encoding.TextMarshaler.
func (g Grid) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Grid) UnmarshalText(text []byte) error {
	parsed, err := ParseGrid(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// digest returns the BLAKE3-256 hex digest of data.
func digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
