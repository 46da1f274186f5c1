package config

import (
	"fmt"

	"wordclip/internal/overlay"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// ValidateStrict runs all strict validations against the config and returns
// structured results.
func (c Config) ValidateStrict() []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateVideo()...)
	results = append(results, c.validateStyle()...)
	results = append(results, c.validateCompose()...)
	results = append(results, c.validateEffects()...)
	return results
}

func (c Config) validateVideo() []ValidationResult {
	var results []ValidationResult
	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("video dimensions must be positive, got %dx%d", c.Video.Width, c.Video.Height),
		})
	}
	if c.Video.FPS <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("video fps must be positive, got %d", c.Video.FPS),
		})
	}
	return results
}

func (c Config) validateStyle() []ValidationResult {
	var results []ValidationResult
	if c.Style.FontSize <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("style font_size must be positive, got %d", c.Style.FontSize),
		})
	}
	if c.Style.StrokeWidth != nil && *c.Style.StrokeWidth < 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("style stroke_width must be >= 0, got %d", *c.Style.StrokeWidth),
		})
	}
	return results
}

func (c Config) validateCompose() []ValidationResult {
	var results []ValidationResult
	if c.Compose.TotalDurationSec < 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("compose total_duration_s must be >= 0, got %v", c.Compose.TotalDurationSec),
		})
	}
	return results
}

// validateEffects parses every configured effect descriptor and warns about
// names absent from the effect registry, which the pipeline will skip.
func (c Config) validateEffects() []ValidationResult {
	var results []ValidationResult
	lists := map[string][]string{
		"single_clip":  c.Effects.SingleClip,
		"word_overlay": c.Effects.WordOverlay,
	}
	for name, list := range lists {
		for _, raw := range list {
			desc, err := overlay.ParseEffect(raw)
			if err != nil {
				results = append(results, ValidationResult{
					Level:   "error",
					Message: fmt.Sprintf("effects %s: %v", name, err),
				})
				continue
			}
			if !knownEffect(desc.Name) {
				results = append(results, ValidationResult{
					Level:   "warning",
					Message: fmt.Sprintf("effects %s: %q is not a known effect and will be ignored", name, desc.Name),
				})
			}
		}
	}
	return results
}

var knownEffects = []string{"fadein", "fadeout", "blackwhite", "mirrorx", "mirrory", "resize"}

func knownEffect(name string) bool {
	for _, known := range knownEffects {
		if name == known {
			return true
		}
	}
	return false
}
