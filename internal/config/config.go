package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mcncl/cbd/internal/errors"
)

// Mode selects the conversion direction.
type Mode string

const (
	// ModeDecode converts CBOR, raw or base64 wrapped, to JSON.
	ModeDecode Mode = "decode"
	// ModeEncode converts JSON to CBOR.
	ModeEncode Mode = "encode"
)

// Config represents the runtime configuration for cbd. It is assembled
// from command line flags and the environment; there is no config file.
type Config struct {
	Mode   Mode
	Base64 bool
	Debug  bool
	Input  string
	Output string
}

// Flags mirrors the command line options that feed a Config.
type Flags struct {
	Encode bool
	Base64 bool
	Debug  bool
	Input  string
	Output string
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Mode:   ModeDecode,
		Base64: false,
		Debug:  false,
	}
}

// FromFlags builds a Config from parsed command line flags
func FromFlags(f Flags) *Config {
	cfg := NewConfig()
	if f.Encode {
		cfg.Mode = ModeEncode
	}
	cfg.Base64 = f.Base64
	cfg.Debug = f.Debug
	cfg.Input = f.Input
	cfg.Output = f.Output
	return cfg
}

// Validate checks the configuration for values the CLI cannot act on
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeDecode, ModeEncode:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}

	if c.Input != "" {
		if info, err := os.Stat(c.Input); err == nil && info.IsDir() {
			return fmt.Errorf("%w: input path '%s' is a directory", errors.ErrInvalidFilePath, c.Input)
		}
	}

	if c.Output != "" {
		dir := filepath.Dir(c.Output)
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("%w: output directory '%s': %w", errors.ErrInvalidFilePath, dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%w: output directory '%s' is not a directory", errors.ErrInvalidFilePath, dir)
		}
	}

	return nil
}

// Warnings returns messages about options that are accepted but have no
// effect with the rest of the configuration.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.Base64 && c.Mode == ModeDecode {
		warnings = append(warnings, "--base64 only applies when encoding; decode detects base64 input automatically")
	}
	return warnings
}

// LogLevel returns the minimum level to log at
func (c *Config) LogLevel() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// Encoding reports whether the configuration converts JSON to CBOR
func (c *Config) Encoding() bool {
	return c.Mode == ModeEncode
}
