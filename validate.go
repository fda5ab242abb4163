package gridcut

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Validator checks uploads against the configured media types and size
// ceiling. It never decodes.
type Validator struct {
	supported map[string]struct{}
	maxSize   ByteSize
}

// NewValidator creates a Validator from cfg.
func NewValidator(cfg Config) *Validator {
	supported := make(map[string]struct{}, len(cfg.SupportedTypes))
	for _, t := range cfg.SupportedTypes {
		supported[t] = struct{}{}
	}
	return &Validator{supported: supported, maxSize: cfg.MaxFileSize}
}

// Validate returns nil when f is acceptable, otherwise a *FileError whose
// Kind is ErrUnsupportedFormat or ErrFileTooLarge. The type check runs first.
func (v *Validator) Validate(f File) error {
	if _, ok := v.supported[f.Type]; !ok {
		return newFileError(f.Name, ErrUnsupportedFormat, fmt.Sprintf("type %q", f.Type), nil)
	}
	if f.Size < 0 {
		return newFileError(f.Name, ErrFileTooLarge, fmt.Sprintf("invalid size %d", f.Size), nil)
	}
	if uint64(f.Size) > uint64(v.maxSize) {
		detail := fmt.Sprintf("%s exceeds %s", humanize.IBytes(uint64(f.Size)), v.maxSize)
		return newFileError(f.Name, ErrFileTooLarge, detail, nil)
	}
	return nil
}
