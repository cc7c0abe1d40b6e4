package config

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

type Config struct {
	// Selection flags
	Types       []string `mapstructure:"type" validate:"min=1,dive,required"`
	Exclude     []string
	ExcludeFrom string `mapstructure:"exclude-from"`

	// Passphrase policy
	Length  int    `validate:"min=10"`
	Charset string `validate:"charset"`

	// Artifact and chunking
	SplitSize string `mapstructure:"split-size" validate:"bytesize"`
	Suffix    string `validate:"required"`

	// Backend selection
	Backend       string `validate:"oneof=gpg age"`
	Cipher        string `validate:"required"`
	Digest        string `validate:"required"`
	CompressLevel int    `mapstructure:"compress-level" validate:"min=0,max=9"`

	// Output placement
	Rename    bool
	Template  string
	OutputDir string `mapstructure:"output-dir"`
	KeyFile   string `mapstructure:"key-file"`

	// Join-specific flags
	Output string
	Keep   bool

	// Behavior flags
	Delete bool
	Dry    bool
	Yes    bool
	Quiet  bool
	Stats  bool

	// Positional arguments
	Files []string
}

// ValidateSettings validates every setting against the struct tags,
// for commands that run without a file selection.
func (c Config) ValidateSettings() error {
	validate, err := newValidator()
	if err != nil {
		return err
	}

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	if c.Rename && c.Template == "" {
		return fmt.Errorf("rename requested with an empty template")
	}

	return nil
}

// Validate validates the full configuration for a seal run.
func (c Config) Validate() error {
	if err := c.ValidateSettings(); err != nil {
		return err
	}

	if len(c.Files) == 0 {
		return fmt.Errorf("no paths given")
	}

	return nil
}

// SplitBytes returns the chunk size limit in bytes. Validation
// guarantees the size parses and is positive.
func (c Config) SplitBytes() int64 {
	size, err := humanize.ParseBytes(c.SplitSize)
	if err != nil {
		return 0
	}

	return int64(size) //nolint:gosec // bounded by validation well below overflow
}
