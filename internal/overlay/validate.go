package overlay

import (
	"fmt"
	"strings"
)

// InvalidParameterError reports a malformed or missing configuration field.
// It is surfaced immediately to the caller; nothing is partially built.
type InvalidParameterError struct {
	Field   string
	Message string
}

func (e InvalidParameterError) Error() string {
	return fmt.Sprintf("parameter %q %s", e.Field, e.Message)
}

// Validate checks params against the clip parameter contract. textField
// names the required text-bearing key ("text" or "word" depending on the
// call site); it defaults to "text". Validate is a pure check with no
// side effects and must run before any defaulting or construction.
func Validate(params Params, textField string) error {
	if textField == "" {
		textField = FieldText
	}

	raw, ok := params[textField]
	if !ok {
		return InvalidParameterError{Field: textField, Message: "is required and must be a non-empty string"}
	}
	text, isString := raw.(string)
	if !isString || strings.TrimSpace(text) == "" {
		return InvalidParameterError{Field: textField, Message: "is required and must be a non-empty string"}
	}

	if raw, key, ok := params.lookup("fontsize", "font_size"); ok {
		value, numeric := intValue(raw)
		if !numeric || value <= 0 {
			return InvalidParameterError{Field: key, Message: "must be a positive integer"}
		}
	}

	if raw, ok := params["size"]; ok {
		dims, valid := sizeValue(raw)
		if !valid || dims.Width <= 0 || dims.Height <= 0 {
			return InvalidParameterError{Field: "size", Message: "must be a (width, height) pair of positive integers"}
		}
	}

	start := 0.0
	if raw, ok := params["start_time"]; ok {
		value, numeric := floatValue(raw)
		if !numeric {
			return InvalidParameterError{Field: "start_time", Message: "must be numeric"}
		}
		if value < 0 {
			return InvalidParameterError{Field: "start_time", Message: "must be non-negative"}
		}
		start = value
	}

	if raw, ok := params["end_time"]; ok {
		value, numeric := floatValue(raw)
		if !numeric {
			return InvalidParameterError{Field: "end_time", Message: "must be numeric"}
		}
		if value <= start {
			return InvalidParameterError{Field: "end_time", Message: "must be greater than start_time"}
		}
	}

	return nil
}
