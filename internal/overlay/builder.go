package overlay

// Builder defaults, matching the legacy factory.
const (
	DefaultFont      = "Arial"
	DefaultColor     = "white"
	DefaultStroke    = "black"
	DefaultMethod    = "label"
	DefaultAlign     = "center"
	DefaultFontSize  = 24
	DefaultInterline = 4

	// DefaultClipDuration is the fallback duration for composite-timeline
	// clips whose config carries neither end_time nor duration.
	DefaultClipDuration = 5.0
)

// DefaultSize is the element canvas used when the config omits "size".
var DefaultSize = Size{Width: 640, Height: 480}

// Preset names the defaulting knobs for one build path. Presets are explicit
// data so the single-clip and per-word-overlay behaviours stay visible
// instead of being buried in call sites.
type Preset struct {
	Name      string
	TextField string

	// DefaultDuration resolves the element duration when the config carries
	// neither end_time nor duration. Zero leaves the duration unresolved.
	DefaultDuration float64

	// DefaultEffects apply when the config has no "effects" key.
	DefaultEffects []EffectDescriptor
}

// SingleClip is the preset for standalone clips: slower fades, duration left
// unresolved unless the config supplies timing.
func SingleClip() Preset {
	return Preset{
		Name:      "single_clip",
		TextField: FieldText,
		DefaultEffects: []EffectDescriptor{
			{Name: "fadein", Value: 0.2, HasValue: true},
			{Name: "fadeout", Value: 0.2, HasValue: true},
		},
	}
}

// WordOverlay is the preset for per-word composite overlays: fast fades to
// suit short word durations, and a default duration so fadeout always has a
// resolved length to work with.
func WordOverlay() Preset {
	return Preset{
		Name:            "word_overlay",
		TextField:       FieldWord,
		DefaultDuration: DefaultClipDuration,
		DefaultEffects: []EffectDescriptor{
			{Name: "fadein", Value: 0.06, HasValue: true},
			{Name: "fadeout", Value: 0.06, HasValue: true},
		},
	}
}

// Build validates params, applies the documented defaults, resolves timing,
// and runs the effect pipeline. The caller receives either a fully valid
// element or an error, never a partial construction.
//
// Font size always participates in the resolved style, including for the
// "caption" method; see DESIGN.md for the rationale behind that policy.
func Build(params Params, preset Preset) (Element, error) {
	if preset.TextField == "" {
		preset.TextField = FieldText
	}
	if err := Validate(params, preset.TextField); err != nil {
		return Element{}, err
	}

	el := Element{
		Text: params[preset.TextField].(string),
		Style: Style{
			Font:            params.stringOr("font", DefaultFont),
			FontSize:        params.intOr(DefaultFontSize, "fontsize", "font_size"),
			Color:           params.stringOr("color", DefaultColor),
			StrokeWidth:     params.intOr(0, "stroke_width"),
			StrokeColor:     params.stringOr("stroke_color", DefaultStroke),
			BGColor:         params.stringOr("bg_color", ""),
			Method:          params.stringOr("method", DefaultMethod),
			Align:           firstString(params, DefaultAlign, "align", "text_align"),
			HorizontalAlign: params.stringOr("horizontal_align", DefaultAlign),
			VerticalAlign:   params.stringOr("vertical_align", DefaultAlign),
			Interline:       params.intOr(DefaultInterline, "interline"),
			Margin:          params.intOr(0, "margin"),
		},
		Size:  params.sizeOr(DefaultSize),
		Scale: 1,
	}

	start := params.floatOr("start_time", 0)
	el.Start = start

	if raw, ok := params["end_time"]; ok {
		end, _ := floatValue(raw)
		duration := end - start
		el.Duration = &duration
	} else if raw, ok := params["duration"]; ok {
		duration, numeric := floatValue(raw)
		if !numeric || duration <= 0 {
			return Element{}, InvalidParameterError{Field: "duration", Message: "must be a positive number"}
		}
		el.Duration = &duration
	} else if preset.DefaultDuration > 0 {
		duration := preset.DefaultDuration
		el.Duration = &duration
	}

	effects := preset.DefaultEffects
	if raw, ok := params["effects"]; ok {
		parsed, err := ParseEffectList(raw)
		if err != nil {
			return Element{}, err
		}
		effects = parsed
	}

	return Apply(el, effects)
}

func firstString(params Params, def string, keys ...string) string {
	for _, key := range keys {
		if raw, ok := params[key]; ok {
			if value, ok := raw.(string); ok && value != "" {
				return value
			}
		}
	}
	return def
}
