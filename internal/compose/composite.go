// Package compose layers word-overlay elements over a base visual into an
// in-memory composite ready for hand-off to the render layer.
package compose

import (
	"wordclip/internal/overlay"
)

// LayerKind distinguishes the slots in a composite's bottom-to-top stack.
type LayerKind string

const (
	LayerBackground LayerKind = "background"
	LayerBase       LayerKind = "base"
	LayerOverlay    LayerKind = "overlay"
)

// Layer is one slot in the composite stack. Background layers carry a fill
// color, base layers a media path or a pre-built visual, overlay layers a
// text element. Each overlay element belongs to exactly one layer.
type Layer struct {
	Kind      LayerKind        `json:"kind"`
	Color     string           `json:"color,omitempty"`
	MediaPath string           `json:"media_path,omitempty"`
	Element   *overlay.Element `json:"element,omitempty"`
	Start     float64          `json:"start"`
	End       float64          `json:"end"`
}

// Composite is the ordered layering of a background, a base visual, and
// word overlays into one timeline-bound structure. Layers are ordered
// bottom-to-top; overlay layers preserve the input word order.
type Composite struct {
	Canvas        overlay.Size `json:"canvas"`
	TotalDuration float64      `json:"total_duration"`
	Layers        []Layer      `json:"layers"`
}

// Overlays returns the overlay layers in stacking order.
func (c *Composite) Overlays() []Layer {
	var overlays []Layer
	for _, layer := range c.Layers {
		if layer.Kind == LayerOverlay {
			overlays = append(overlays, layer)
		}
	}
	return overlays
}

// Base returns the base layer, if present.
func (c *Composite) Base() (Layer, bool) {
	for _, layer := range c.Layers {
		if layer.Kind == LayerBase {
			return layer, true
		}
	}
	return Layer{}, false
}
