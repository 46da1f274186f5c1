// Package config loads and validates the wordclip project configuration:
// canvas dimensions, default text styling, and the named effect presets used
// by the clip builder.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config captures the composition and overlay configuration for a project.
type Config struct {
	Version int           `yaml:"version"`
	Video   VideoConfig   `yaml:"video"`
	Style   StyleConfig   `yaml:"style"`
	Compose ComposeConfig `yaml:"compose"`
	Effects EffectsConfig `yaml:"effects"`
}

// VideoConfig contains canvas sizing and framerate information.
type VideoConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
	Codec  string `yaml:"codec"`
}

// StyleConfig describes the default word overlay text style.
type StyleConfig struct {
	Font        string `yaml:"font"`
	FontSize    int    `yaml:"font_size"`
	Color       string `yaml:"color"`
	StrokeWidth *int   `yaml:"stroke_width,omitempty"`
	StrokeColor string `yaml:"stroke_color"`
}

// ComposeConfig groups composition-wide settings.
type ComposeConfig struct {
	Background string `yaml:"background"`

	// TotalDurationSec fixes the composite length. Zero derives it from the
	// last word's end time.
	TotalDurationSec float64 `yaml:"total_duration_s"`

	// MergeAdjacent collapses contiguously-timed words into one overlay.
	MergeAdjacent *bool `yaml:"merge_adjacent,omitempty"`
}

// MergeAdjacentValue returns the effective merge flag applying defaults.
func (c ComposeConfig) MergeAdjacentValue() bool {
	if c.MergeAdjacent == nil {
		return true
	}
	return *c.MergeAdjacent
}

// EffectsConfig holds the named default effect lists, one per build path.
// Each entry is an effect descriptor string ("name" or "name,value").
type EffectsConfig struct {
	SingleClip  []string `yaml:"single_clip"`
	WordOverlay []string `yaml:"word_overlay"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version: 1,
		Video: VideoConfig{
			Width:  1920,
			Height: 1080,
			FPS:    30,
			Codec:  "libx264",
		},
		Style: StyleConfig{
			Font:        "Arial",
			FontSize:    50,
			Color:       "white",
			StrokeWidth: intPtr(3),
			StrokeColor: "black",
		},
		Compose: ComposeConfig{
			Background:    "black",
			MergeAdjacent: boolPtr(true),
		},
		Effects: EffectsConfig{
			SingleClip:  []string{"fadein,0.2", "fadeout,0.2"},
			WordOverlay: []string{"fadein,0.06", "fadeout,0.06"},
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults ensures nested fields fall back to sensible defaults when the
// YAML omits them.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.Video.Width == 0 {
		c.Video.Width = defaults.Video.Width
	}
	if c.Video.Height == 0 {
		c.Video.Height = defaults.Video.Height
	}
	if c.Video.FPS == 0 {
		c.Video.FPS = defaults.Video.FPS
	}
	if c.Video.Codec == "" {
		c.Video.Codec = defaults.Video.Codec
	}
	if c.Style.Font == "" {
		c.Style.Font = defaults.Style.Font
	}
	if c.Style.FontSize == 0 {
		c.Style.FontSize = defaults.Style.FontSize
	}
	if c.Style.Color == "" {
		c.Style.Color = defaults.Style.Color
	}
	if c.Style.StrokeWidth == nil {
		c.Style.StrokeWidth = defaults.Style.StrokeWidth
	}
	if c.Style.StrokeColor == "" {
		c.Style.StrokeColor = defaults.Style.StrokeColor
	}
	if c.Compose.Background == "" {
		c.Compose.Background = defaults.Compose.Background
	}
	if c.Compose.MergeAdjacent == nil {
		c.Compose.MergeAdjacent = boolPtr(true)
	}
	if len(c.Effects.SingleClip) == 0 {
		c.Effects.SingleClip = defaults.Effects.SingleClip
	}
	if len(c.Effects.WordOverlay) == 0 {
		c.Effects.WordOverlay = defaults.Effects.WordOverlay
	}
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}

func boolPtr(v bool) *bool {
	return &v
}

func intPtr(v int) *int {
	return &v
}
