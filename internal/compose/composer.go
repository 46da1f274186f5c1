package compose

import (
	"errors"
	"fmt"
	"strings"

	"wordclip/internal/overlay"
	"wordclip/pkg/wordplan"
)

// Word overlay styling defaults.
const (
	DefaultFontSize    = 50
	DefaultStrokeWidth = 3
	DefaultColor       = "white"
	DefaultStrokeColor = "black"
	DefaultBackground  = "black"
)

// TextStyle carries the word overlay styling knobs. Zero values fall back to
// the documented defaults.
type TextStyle struct {
	Font        string
	FontSize    int
	Color       string
	StrokeWidth *int
	StrokeColor string
}

// BaseVisual identifies the base layer: either a media file path (still
// image or video) or a pre-built layer. Exactly one must be set.
type BaseVisual struct {
	Path  string
	Layer *Layer
}

// Compose builds one effect-processed overlay element per word entry,
// positions it at the entry's start/end, and stacks
// [background, base, overlays...] bottom-to-top. Overlay order matches the
// input entry order. The returned composite owns all of its layers; input
// entries are not retained. Elements are built through the stock
// word-overlay preset; use ComposeWithPreset to supply a customized one.
func Compose(entries []wordplan.Word, canvas overlay.Size, totalDuration float64, base BaseVisual, style TextStyle) (*Composite, error) {
	return ComposeWithPreset(entries, canvas, totalDuration, base, style, overlay.WordOverlay())
}

// ComposeWithPreset is Compose with an explicit build preset, letting callers
// thread configured default effect lists into the per-word elements. The
// preset's text field is forced to "word" since that is the key the composer
// populates.
func ComposeWithPreset(entries []wordplan.Word, canvas overlay.Size, totalDuration float64, base BaseVisual, style TextStyle, preset overlay.Preset) (*Composite, error) {
	if canvas.Width <= 0 || canvas.Height <= 0 {
		return nil, errors.New("invalid canvas dimensions")
	}
	if totalDuration <= 0 {
		return nil, errors.New("total duration must be positive")
	}
	if strings.TrimSpace(base.Path) == "" && base.Layer == nil {
		return nil, errors.New("base visual is required")
	}

	style = resolveStyle(style)
	preset.TextField = overlay.FieldWord

	layers := make([]Layer, 0, len(entries)+2)
	layers = append(layers, Layer{
		Kind:  LayerBackground,
		Color: DefaultBackground,
		Start: 0,
		End:   totalDuration,
	})
	layers = append(layers, baseLayer(base, totalDuration))

	for i, entry := range entries {
		params := overlay.Params{
			"word":         entry.Word,
			"font":         style.Font,
			"font_size":    style.FontSize,
			"color":        style.Color,
			"stroke_width": *style.StrokeWidth,
			"stroke_color": style.StrokeColor,
			"method":       "caption",
			"size":         canvas,
			"start_time":   entry.Start,
			"end_time":     entry.End,
		}

		el, err := overlay.Build(params, preset)
		if err != nil {
			return nil, fmt.Errorf("word %d (%q): %w", i+1, entry.Word, err)
		}

		layers = append(layers, Layer{
			Kind:    LayerOverlay,
			Element: &el,
			Start:   entry.Start,
			End:     entry.End,
		})
	}

	return &Composite{
		Canvas:        canvas,
		TotalDuration: totalDuration,
		Layers:        layers,
	}, nil
}

// baseLayer stretches the base visual to the full composite duration,
// accepting either a media path or a pre-built layer.
func baseLayer(base BaseVisual, totalDuration float64) Layer {
	if base.Layer != nil {
		layer := *base.Layer
		layer.Kind = LayerBase
		layer.Start = 0
		layer.End = totalDuration
		return layer
	}
	return Layer{
		Kind:      LayerBase,
		MediaPath: base.Path,
		Start:     0,
		End:       totalDuration,
	}
}

func resolveStyle(style TextStyle) TextStyle {
	if strings.TrimSpace(style.Font) == "" {
		style.Font = overlay.DefaultFont
	}
	if style.FontSize <= 0 {
		style.FontSize = DefaultFontSize
	}
	if strings.TrimSpace(style.Color) == "" {
		style.Color = DefaultColor
	}
	if style.StrokeWidth == nil {
		width := DefaultStrokeWidth
		style.StrokeWidth = &width
	}
	if strings.TrimSpace(style.StrokeColor) == "" {
		style.StrokeColor = DefaultStrokeColor
	}
	return style
}
