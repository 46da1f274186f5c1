// Package overlay builds styled, time-positioned text elements from
// loosely-typed configuration maps and applies ordered visual effects to
// them. It is pure: no I/O, no shared state between calls.
package overlay

// Size is a width/height pair in pixels.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Style holds the resolved visual properties of a text element. Every field
// is populated by the builder; absent configuration keys fall back to the
// documented defaults.
type Style struct {
	Font            string `json:"font"`
	FontSize        int    `json:"font_size"`
	Color           string `json:"color"`
	StrokeWidth     int    `json:"stroke_width"`
	StrokeColor     string `json:"stroke_color"`
	BGColor         string `json:"bg_color,omitempty"`
	Method          string `json:"method"`
	Align           string `json:"align"`
	HorizontalAlign string `json:"horizontal_align"`
	VerticalAlign   string `json:"vertical_align"`
	Interline       int    `json:"interline"`
	Margin          int    `json:"margin"`
}

// Element is a positioned, styled text visual with resolved timing and an
// ordered record of the effects applied to it. Duration stays nil until it
// can be resolved from end_time, an explicit duration, or a preset default.
type Element struct {
	Text     string   `json:"text"`
	Style    Style    `json:"style"`
	Size     Size     `json:"size"`
	Start    float64  `json:"start"`
	Duration *float64 `json:"duration,omitempty"`

	FadeIn     float64 `json:"fade_in,omitempty"`
	FadeOut    float64 `json:"fade_out,omitempty"`
	BlackWhite bool    `json:"blackwhite,omitempty"`
	MirrorX    bool    `json:"mirrorx,omitempty"`
	MirrorY    bool    `json:"mirrory,omitempty"`
	Scale      float64 `json:"scale,omitempty"`

	Effects []EffectDescriptor `json:"effects,omitempty"`
}

// DurationValue returns the resolved duration and whether it is set.
func (e Element) DurationValue() (float64, bool) {
	if e.Duration == nil {
		return 0, false
	}
	return *e.Duration, true
}

// End returns the element's end time on the composite timeline. Elements
// with an unresolved duration end at their start.
func (e Element) End() float64 {
	if e.Duration == nil {
		return e.Start
	}
	return e.Start + *e.Duration
}
