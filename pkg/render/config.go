// Package render lays out and draws branded promotional images.
//
// Given a title, an optional subtitle, and a Config, the package renders a
// fixed-size raster image under one of three stylistic templates (basic,
// gradient, minimal). Each render call is a pure transform over its inputs:
// no shared mutable state is touched, so calls are safe to run concurrently
// for distinct output filenames.
package render

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/emberpost/emberpost/pkg/errors"
)

// Brand colors. These are the named defaults merged under any user-supplied
// configuration.
const (
	BurntOrange = "#CC5500"
	DarkOrange  = "#A64400"
	LightOrange = "#FF6A13"
	Cream       = "#FFF8DC"
	DarkGray    = "#2C2C2C"
	White       = "#FFFFFF"
)

// Default canvas and font values.
const (
	DefaultWidth            = 1200
	DefaultHeight           = 630
	DefaultOutputDir        = "output"
	DefaultFontTitleSize    = 72
	DefaultFontSubtitleSize = 36
)

// Config controls a single render call: canvas dimensions, output location,
// font sizes, and the three configurable colors. Colors are 6-digit hex
// strings.
type Config struct {
	Width            int    `json:"width" toml:"width"`
	Height           int    `json:"height" toml:"height"`
	OutputDir        string `json:"output_dir" toml:"output_dir"`
	FontTitleSize    int    `json:"font_title_size" toml:"font_title_size"`
	FontSubtitleSize int    `json:"font_subtitle_size" toml:"font_subtitle_size"`
	PrimaryColor     string `json:"primary_color" toml:"primary_color"`
	BackgroundColor  string `json:"background_color" toml:"background_color"`
	TextColor        string `json:"text_color" toml:"text_color"`
}

// DefaultConfig returns the named brand defaults: a 1200x630 canvas with
// burnt-orange primary, cream background, and dark-gray text.
func DefaultConfig() Config {
	return Config{
		Width:            DefaultWidth,
		Height:           DefaultHeight,
		OutputDir:        DefaultOutputDir,
		FontTitleSize:    DefaultFontTitleSize,
		FontSubtitleSize: DefaultFontSubtitleSize,
		PrimaryColor:     BurntOrange,
		BackgroundColor:  Cream,
		TextColor:        DarkGray,
	}
}

// LoadConfig reads a config file and merges it onto the defaults.
// JSON and TOML are supported, selected by file extension (TOML for .toml,
// JSON otherwise). Keys absent from the file keep their default values;
// unknown keys are ignored.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot read config file: %s", path)
	}

	// Unmarshaling into a pre-populated struct leaves absent keys at their
	// default values, which is exactly the merge the config contract wants.
	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot parse config file: %s", path)
	}
	return cfg, nil
}

// ApplyEnv overlays EMBERPOST_* environment variables onto the config.
// Unset variables leave the corresponding field untouched. Malformed
// numeric values are ignored rather than fatal.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("EMBERPOST_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("EMBERPOST_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Width = n
		}
	}
	if v := os.Getenv("EMBERPOST_HEIGHT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Height = n
		}
	}
	if v := os.Getenv("EMBERPOST_FONT_TITLE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.FontTitleSize = n
		}
	}
	if v := os.Getenv("EMBERPOST_FONT_SUBTITLE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.FontSubtitleSize = n
		}
	}
	if v := os.Getenv("EMBERPOST_PRIMARY_COLOR"); v != "" {
		c.PrimaryColor = v
	}
	if v := os.Getenv("EMBERPOST_BACKGROUND_COLOR"); v != "" {
		c.BackgroundColor = v
	}
	if v := os.Getenv("EMBERPOST_TEXT_COLOR"); v != "" {
		c.TextColor = v
	}
}

// Validate checks the config before any drawing begins. Dimensions must be
// positive, font sizes positive, and all three colors well-formed hex.
func (c Config) Validate() error {
	if err := errors.ValidateDimensions(c.Width, c.Height); err != nil {
		return err
	}
	if c.FontTitleSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "font_title_size must be positive, got %d", c.FontTitleSize)
	}
	if c.FontSubtitleSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "font_subtitle_size must be positive, got %d", c.FontSubtitleSize)
	}
	for _, hex := range []string{c.PrimaryColor, c.BackgroundColor, c.TextColor} {
		if err := errors.ValidateHexColor(hex); err != nil {
			return err
		}
	}
	return nil
}
