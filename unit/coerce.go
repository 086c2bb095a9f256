package unit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// toBool coerces a raw field value to a boolean. Accepted forms: bool,
// bool-like string ("True", "false", "1", ...), or the numbers 0/1.
func toBool(field string, value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("%w: %s(%q) is not a boolean", ErrMalformedInput, field, v)
		}
		return b, nil
	case float64:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case int:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	}
	return false, fmt.Errorf("%w: %s(%v) is not a boolean", ErrMalformedInput, field, value)
}

// toFloat coerces a raw field value to a float64.
func toFloat(field string, value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err == nil {
			return f, nil
		}
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %s(%v) is not a number", ErrMalformedInput, field, value)
}

// toString requires a string-typed value.
func toString(field string, value any) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: %s(%v) is not a string", ErrMalformedInput, field, value)
}

// toFloatSlice coerces a sequence of numbers ([]float64 or JSON-style []any).
func toFloatSlice(field string, value any) ([]float64, error) {
	switch v := value.(type) {
	case []float64:
		return append([]float64(nil), v...), nil
	case []any:
		out := make([]float64, 0, len(v))
		for _, item := range v {
			f, err := toFloat(field, item)
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s(%v) is not a number sequence", ErrMalformedInput, field, value)
}

// toStringSlice coerces a sequence of strings ([]string or JSON-style []any).
func toStringSlice(field string, value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, err := toString(field, item)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s(%v) is not a string sequence", ErrMalformedInput, field, value)
}

// parseScalar interprets an infotext value string as the most specific of
// bool, int, float, or plain string.
func parseScalar(s string) any {
	switch s {
	case "True":
		return true
	case "False":
		return false
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
