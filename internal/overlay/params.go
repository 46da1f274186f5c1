package overlay

import (
	"math"
	"strings"
)

// Params is a loosely-typed clip configuration map, typically decoded from
// JSON or YAML. Keys are the snake_case property names listed in the
// validator's contract.
type Params map[string]any

// Field names accepted as the text-bearing key. Which one is required
// depends on the call site: single clips carry "text", per-word overlay
// configs carry "word".
const (
	FieldText = "text"
	FieldWord = "word"
)

// lookup returns the value of the first present key, the key that matched,
// and whether any matched.
func (p Params) lookup(keys ...string) (any, string, bool) {
	for _, key := range keys {
		if value, ok := p[key]; ok {
			return value, key, true
		}
	}
	return nil, "", false
}

func (p Params) stringOr(key, def string) string {
	if raw, ok := p[key]; ok {
		if value, ok := raw.(string); ok && strings.TrimSpace(value) != "" {
			return value
		}
	}
	return def
}

func (p Params) intOr(def int, keys ...string) int {
	if raw, _, ok := p.lookup(keys...); ok {
		if value, ok := intValue(raw); ok {
			return value
		}
	}
	return def
}

func (p Params) floatOr(key string, def float64) float64 {
	if raw, ok := p[key]; ok {
		if value, ok := floatValue(raw); ok {
			return value
		}
	}
	return def
}

func (p Params) sizeOr(def Size) Size {
	if raw, ok := p["size"]; ok {
		if value, ok := sizeValue(raw); ok {
			return value
		}
	}
	return def
}

func floatValue(raw any) (float64, bool) {
	switch value := raw.(type) {
	case int:
		return float64(value), true
	case int32:
		return float64(value), true
	case int64:
		return float64(value), true
	case float32:
		return float64(value), true
	case float64:
		return value, true
	}
	return 0, false
}

// intValue accepts integer kinds plus float64 values that carry an exact
// integer, since JSON decodes all numbers as float64.
func intValue(raw any) (int, bool) {
	switch value := raw.(type) {
	case int:
		return value, true
	case int32:
		return int(value), true
	case int64:
		return int(value), true
	case float64:
		if value == math.Trunc(value) && !math.IsInf(value, 0) {
			return int(value), true
		}
	}
	return 0, false
}

func sizeValue(raw any) (Size, bool) {
	switch value := raw.(type) {
	case Size:
		return value, true
	case [2]int:
		return Size{Width: value[0], Height: value[1]}, true
	case []int:
		if len(value) == 2 {
			return Size{Width: value[0], Height: value[1]}, true
		}
	case []any:
		if len(value) == 2 {
			width, okW := intValue(value[0])
			height, okH := intValue(value[1])
			if okW && okH {
				return Size{Width: width, Height: height}, true
			}
		}
	}
	return Size{}, false
}
