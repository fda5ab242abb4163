package gridcut

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/gridcut/surface"
)

// Default sizes.
const (
	// DefaultMaxFileSize is the upload ceiling (10 MiB).
	DefaultMaxFileSize ByteSize = 10 * humanize.MiByte

	// DefaultDecodeCache is the decoded pixel budget of the Splitter.
	DefaultDecodeCache ByteSize = 256 * humanize.MiByte
)

// DefaultSupportedTypes returns the media types accepted by default.
func DefaultSupportedTypes() []string {
	return []string{"image/jpeg", "image/png", "image/webp"}
}

// ByteSize is a size in bytes. In YAML it accepts either a plain integer or
// a human-readable size such as "10MiB" or "5 MB".
type ByteSize uint64

// String formats the size with IEC units, e.g. "10 MiB".
func (s ByteSize) String() string {
	return humanize.IBytes(uint64(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s ByteSize) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ByteSize) UnmarshalText(text []byte) error {
	n, err := humanize.ParseBytes(string(text))
	if err != nil {
		return fmt.Errorf("gridcut: byte size %q: %w", text, err)
	}
	*s = ByteSize(n)
	return nil
}

// Config holds everything the pipeline and the session need.
//
// A Config is an explicit value handed to constructors. There is no global
// configuration.
type Config struct {
	// SupportedTypes lists accepted media types.
	SupportedTypes []string `yaml:"supported_types"`

	// MaxFileSize is the inclusive upload ceiling.
	MaxFileSize ByteSize `yaml:"max_file_size"`

	// Processing holds the session's processing options.
	Processing ProcessingOptions `yaml:"processing"`

	// DefaultGrid is applied on the first upload and after removals.
	DefaultGrid Grid `yaml:"default_grid"`

	// AutoSplit splits the first uploaded image at DefaultGrid.
	AutoSplit bool `yaml:"auto_split"`

	// GridPresets are the offered grid sizes.
	GridPresets []Grid `yaml:"grid_presets"`

	// Surface names the registered surface backend. Empty selects the best
	// available one.
	Surface string `yaml:"surface"`

	// DecodeCache bounds the decoded pixels kept between splits. Zero
	// disables the cache.
	DecodeCache ByteSize `yaml:"decode_cache"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		SupportedTypes: DefaultSupportedTypes(),
		MaxFileSize:    DefaultMaxFileSize,
		Processing:     DefaultProcessingOptions(),
		DefaultGrid:    DefaultGrid,
		AutoSplit:      true,
		GridPresets:    DefaultGridPresets(),
		DecodeCache:    DefaultDecodeCache,
	}
}

// LoadConfig reads a YAML file and merges it over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("gridcut: load config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("gridcut: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if len(c.SupportedTypes) == 0 {
		return fmt.Errorf("%w: no supported types", ErrInvalidOptions)
	}
	for _, t := range c.SupportedTypes {
		if !strings.HasPrefix(t, "image/") {
			return fmt.Errorf("%w: supported type %q is not an image type", ErrInvalidOptions, t)
		}
	}
	if c.MaxFileSize == 0 {
		return fmt.Errorf("%w: max file size must be positive", ErrInvalidOptions)
	}
	if err := c.Processing.Validate(); err != nil {
		return err
	}
	if err := c.DefaultGrid.Validate(); err != nil {
		return err
	}
	for _, g := range c.GridPresets {
		if err := g.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Supports reports whether mediaType is in SupportedTypes.
func (c Config) Supports(mediaType string) bool {
	return slices.Contains(c.SupportedTypes, mediaType)
}

// NewSurface creates the configured surface backend.
func (c Config) NewSurface() (surface.Surface, error) {
	return surface.NewByName(c.Surface)
}
