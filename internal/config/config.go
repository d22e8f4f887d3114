// Package config loads hivexcavator settings from defaults, an optional TOML
// file, and the environment.
//
// Precedence, lowest first: Default, the file, NO_COLOR. Command-line flags
// are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/mattn/go-isatty"

	"github.com/joshuapare/hivexcavator/excavate"
	"github.com/joshuapare/hivexcavator/internal/style"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// maxIndent keeps a typo in the config from producing unreadable output.
const maxIndent = 16

// Config is the resolved set of display settings.
type Config struct {
	Color    bool          `toml:"color"`
	Indent   int           `toml:"indent"`
	MaxDepth int           `toml:"max_depth"`
	Format   string        `toml:"format"`
	Palette  style.Palette `toml:"palette"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Color:    true,
		Indent:   excavate.DefaultIndent,
		MaxDepth: excavate.DefaultMaxDepth,
		Format:   FormatText,
		Palette:  style.DefaultPalette,
	}
}

// DefaultPath is config.toml under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "hivexcavator", "config.toml"), nil
}

// Load reads path over the defaults. An empty path tries DefaultPath and
// tolerates its absence; an explicit path must exist and parse.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return Default(), fmt.Errorf("config %s: unknown key %q", path, keys[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	if c.Indent < 0 || c.Indent > maxIndent {
		return fmt.Errorf("indent %d out of range 0..%d", c.Indent, maxIndent)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth)
	}
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("format %q is not %q or %q", c.Format, FormatText, FormatJSON)
	}
	return c.Palette.Validate()
}

// ApplyEnv disables color when NO_COLOR is set to a non-empty value.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv("NO_COLOR") != "" {
		c.Color = false
	}
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
