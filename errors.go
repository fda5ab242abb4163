package gridcut

import (
	"errors"
	"strings"
)

// Failure kinds. Every error returned by the pipeline matches exactly one of
// these with errors.Is.
var (
	// ErrUnsupportedFormat is returned when a file's media type is not in
	// the supported set.
	ErrUnsupportedFormat = errors.New("gridcut: unsupported format")

	// ErrFileTooLarge is returned when a file exceeds the size ceiling.
	ErrFileTooLarge = errors.New("gridcut: file too large")

	// ErrDecode is returned when image bytes cannot be decoded or rendered.
	ErrDecode = errors.New("gridcut: decode failed")

	// ErrDuplicateName is returned when an image with the same name is
	// already in the collection.
	ErrDuplicateName = errors.New("gridcut: duplicate image name")

	// ErrTilePackaging is returned when a tile cannot be added to an archive.
	ErrTilePackaging = errors.New("gridcut: tile packaging failed")

	// ErrInvalidGrid is returned for grids with a non-positive dimension or
	// finer than the image.
	ErrInvalidGrid = errors.New("gridcut: invalid grid")

	// ErrInvalidOptions is returned when processing options are out of range.
	ErrInvalidOptions = errors.New("gridcut: invalid options")
)

// FileError describes a failure scoped to one file, image or tile.
type FileError struct {
	// Name is the file, image or tile name.
	Name string

	// Kind is one of the Err* sentinels.
	Kind error

	// Detail is an optional human-readable explanation.
	Detail string

	// Err is the underlying cause, if any.
	Err error
}

func (e *FileError) Error() string {
	var sb strings.Builder
	if e.Kind != nil {
		sb.WriteString(e.Kind.Error())
	} else {
		sb.WriteString("gridcut: error")
	}
	if e.Name != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Name)
	}
	if e.Detail != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Detail)
		sb.WriteString(")")
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap exposes both the failure kind and the cause to errors.Is/As.
func (e *FileError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func newFileError(name string, kind error, detail string, cause error) *FileError {
	return &FileError{Name: name, Kind: kind, Detail: detail, Err: cause}
}
