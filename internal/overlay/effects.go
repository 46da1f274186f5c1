package overlay

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMissingDuration is returned when an effect requires a resolved element
// duration and the element has none (fadeout needs to know when to start).
var ErrMissingDuration = errors.New("element duration is not resolved")

// Fade length applied when a fade descriptor omits its argument.
const defaultFadeLength = 0.5

// EffectDescriptor names one visual transform with an optional numeric
// argument, encoded in configuration as "name" or "name,value".
type EffectDescriptor struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value,omitempty"`
	HasValue bool    `json:"has_value,omitempty"`
}

// String renders the descriptor back to its configuration encoding.
func (d EffectDescriptor) String() string {
	if d.HasValue {
		return d.Name + "," + strconv.FormatFloat(d.Value, 'f', -1, 64)
	}
	return d.Name
}

// ParseEffect parses a single "name" or "name,value" descriptor.
func ParseEffect(raw string) (EffectDescriptor, error) {
	parts := strings.Split(raw, ",")
	name := strings.ToLower(strings.TrimSpace(parts[0]))
	if name == "" {
		return EffectDescriptor{}, InvalidParameterError{Field: "effects", Message: "contains an empty effect name"}
	}

	switch len(parts) {
	case 1:
		return EffectDescriptor{Name: name}, nil
	case 2:
		value, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return EffectDescriptor{}, InvalidParameterError{
				Field:   "effects",
				Message: fmt.Sprintf("effect %q has a non-numeric argument", name),
			}
		}
		return EffectDescriptor{Name: name, Value: value, HasValue: true}, nil
	default:
		return EffectDescriptor{}, InvalidParameterError{
			Field:   "effects",
			Message: fmt.Sprintf("effect %q takes at most one argument", name),
		}
	}
}

// ParseEffectList normalizes the "effects" configuration value: a list of
// descriptor strings, already-parsed descriptors, or a single string.
func ParseEffectList(raw any) ([]EffectDescriptor, error) {
	switch list := raw.(type) {
	case nil:
		return nil, nil
	case string:
		desc, err := ParseEffect(list)
		if err != nil {
			return nil, err
		}
		return []EffectDescriptor{desc}, nil
	case []string:
		descs := make([]EffectDescriptor, 0, len(list))
		for _, item := range list {
			desc, err := ParseEffect(item)
			if err != nil {
				return nil, err
			}
			descs = append(descs, desc)
		}
		return descs, nil
	case []EffectDescriptor:
		return append([]EffectDescriptor(nil), list...), nil
	case []any:
		descs := make([]EffectDescriptor, 0, len(list))
		for _, item := range list {
			switch value := item.(type) {
			case string:
				desc, err := ParseEffect(value)
				if err != nil {
					return nil, err
				}
				descs = append(descs, desc)
			case EffectDescriptor:
				descs = append(descs, value)
			default:
				return nil, InvalidParameterError{Field: "effects", Message: "entries must be effect descriptor strings"}
			}
		}
		return descs, nil
	default:
		return nil, InvalidParameterError{Field: "effects", Message: "must be a list of effect descriptors"}
	}
}

type effectFunc func(Element, EffectDescriptor) (Element, error)

// Effects are an open extension point: absence from the registry means the
// descriptor is a no-op, not an error.
var effectRegistry = map[string]effectFunc{
	"fadein":     applyFadeIn,
	"fadeout":    applyFadeOut,
	"blackwhite": applyBlackWhite,
	"mirrorx":    applyMirrorX,
	"mirrory":    applyMirrorY,
	"resize":     applyResize,
}

// Apply folds the descriptors over the element strictly in list order,
// producing a new element per step. Unknown effect names are skipped.
// Effects may change duration or geometry but never the start offset.
func Apply(el Element, effects []EffectDescriptor) (Element, error) {
	// Detach the applied-effects record from any previous element's backing
	// array before appending to it.
	el.Effects = append([]EffectDescriptor(nil), el.Effects...)

	for _, desc := range effects {
		fn, ok := effectRegistry[desc.Name]
		if !ok {
			continue
		}
		next, err := fn(el, desc)
		if err != nil {
			return Element{}, err
		}
		next.Effects = append(next.Effects, desc)
		el = next
	}
	return el, nil
}

func fadeLength(desc EffectDescriptor) float64 {
	if desc.HasValue {
		return desc.Value
	}
	return defaultFadeLength
}

func applyFadeIn(el Element, desc EffectDescriptor) (Element, error) {
	length := fadeLength(desc)
	if duration, ok := el.DurationValue(); ok {
		length = math.Min(length, duration)
	}
	el.FadeIn = length
	return el, nil
}

func applyFadeOut(el Element, desc EffectDescriptor) (Element, error) {
	duration, ok := el.DurationValue()
	if !ok {
		return Element{}, fmt.Errorf("fadeout: %w", ErrMissingDuration)
	}
	el.FadeOut = math.Min(fadeLength(desc), duration)
	return el, nil
}

func applyBlackWhite(el Element, _ EffectDescriptor) (Element, error) {
	el.BlackWhite = true
	return el, nil
}

// Mirrors toggle so that applying the same mirror twice restores the
// original orientation.
func applyMirrorX(el Element, _ EffectDescriptor) (Element, error) {
	el.MirrorX = !el.MirrorX
	return el, nil
}

func applyMirrorY(el Element, _ EffectDescriptor) (Element, error) {
	el.MirrorY = !el.MirrorY
	return el, nil
}

func applyResize(el Element, desc EffectDescriptor) (Element, error) {
	if !desc.HasValue {
		return Element{}, InvalidParameterError{Field: "effects", Message: "resize requires a numeric scale argument"}
	}
	if desc.Value <= 0 {
		return Element{}, InvalidParameterError{Field: "effects", Message: "resize scale must be positive"}
	}
	if el.Scale == 0 {
		el.Scale = 1
	}
	el.Scale *= desc.Value
	el.Size.Width = int(math.Round(float64(el.Size.Width) * desc.Value))
	el.Size.Height = int(math.Round(float64(el.Size.Height) * desc.Value))
	return el, nil
}
