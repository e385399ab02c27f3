package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/moasq/gridmenu/internal/terminal"
)

// Defaults applied before any config file or flag.
const (
	DefaultColumns   = 2
	DefaultCellWidth = 20
	DefaultPrompt    = "Select an option:"
)

var (
	DefaultForeground = terminal.RGB{R: 255, G: 255, B: 255}
	DefaultBackground = terminal.RGB{R: 0, G: 0, B: 255}
)

// Config holds the menu settings. It is fixed once the menu starts.
type Config struct {
	// Columns is the number of grid columns (>= 1).
	Columns int

	// CellWidth is the width a label may occupy before it is truncated (>= 1).
	CellWidth int

	// Prompt is printed above the grid.
	Prompt string

	// Separator is printed between the prompt and the grid. Empty means a
	// rule of '-' as wide as the grid.
	Separator string

	// Foreground and Background colour the selected cell. Nil means the
	// colour is not applied.
	Foreground *terminal.RGB
	Background *terminal.RGB

	// NoColor forces bracket markers even on colour terminals.
	NoColor bool
}

// Default returns the built-in configuration.
func Default() *Config {
	fg, bg := DefaultForeground, DefaultBackground
	return &Config{
		Columns:    DefaultColumns,
		CellWidth:  DefaultCellWidth,
		Prompt:     DefaultPrompt,
		Foreground: &fg,
		Background: &bg,
	}
}

// Validate checks the invariants the layout relies on.
func (c *Config) Validate() error {
	if c.Columns < 1 {
		return fmt.Errorf("columns must be at least 1, got %d", c.Columns)
	}
	if c.CellWidth < 1 {
		return fmt.Errorf("cell size must be at least 1, got %d", c.CellWidth)
	}
	return nil
}

// fileConfig is the on-disk YAML shape. Pointer fields distinguish
// "not set" from zero values.
type fileConfig struct {
	Columns   *int    `yaml:"columns"`
	CellSize  *int    `yaml:"cell_size"`
	Prompt    *string `yaml:"prompt"`
	Separator *string `yaml:"separator"`
	ForeColor *string `yaml:"fore_color"`
	BackColor *string `yaml:"back_color"`
	NoColor   *bool   `yaml:"no_color"`
}

// DefaultPath returns $XDG_CONFIG_HOME/gridmenu/config.yaml (or the
// platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, "gridmenu", "config.yaml"), nil
}

// Load returns the defaults overlaid with the config file at path. An empty
// path means DefaultPath, which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := cfg.merge(data); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) merge(data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if fc.Columns != nil {
		c.Columns = *fc.Columns
	}
	if fc.CellSize != nil {
		c.CellWidth = *fc.CellSize
	}
	if fc.Prompt != nil {
		c.Prompt = *fc.Prompt
	}
	if fc.Separator != nil {
		c.Separator = *fc.Separator
	}
	if fc.NoColor != nil {
		c.NoColor = *fc.NoColor
	}
	if fc.ForeColor != nil {
		rgb, err := parseOptionalColor(*fc.ForeColor)
		if err != nil {
			return fmt.Errorf("fore_color: %w", err)
		}
		c.Foreground = rgb
	}
	if fc.BackColor != nil {
		rgb, err := parseOptionalColor(*fc.BackColor)
		if err != nil {
			return fmt.Errorf("back_color: %w", err)
		}
		c.Background = rgb
	}
	return nil
}

// SetForeground parses and applies a foreground colour; "none" clears it.
func (c *Config) SetForeground(s string) error {
	rgb, err := parseOptionalColor(s)
	if err != nil {
		return err
	}
	c.Foreground = rgb
	return nil
}

// SetBackground parses and applies a background colour; "none" clears it.
func (c *Config) SetBackground(s string) error {
	rgb, err := parseOptionalColor(s)
	if err != nil {
		return err
	}
	c.Background = rgb
	return nil
}

func parseOptionalColor(s string) (*terminal.RGB, error) {
	if s == "none" || s == "" {
		return nil, nil
	}
	rgb, err := terminal.ParseRGB(s)
	if err != nil {
		return nil, err
	}
	return &rgb, nil
}
