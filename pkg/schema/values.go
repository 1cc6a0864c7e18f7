package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// ZeroValue is the value a field starts with when no initial value exists.
func ZeroValue(kind Kind) any {
	switch kind {
	case KindCheckbox:
		return false
	case KindNumber:
		return float64(0)
	default:
		return ""
	}
}

// Defaults returns kind zero values overlaid with the schema's initial data.
// Initial entries for unknown fields are kept so hydration round-trips.
func (s Schema) Defaults() map[string]any {
	out := make(map[string]any, len(s.Fields)+len(s.Initial))
	for _, field := range s.Fields {
		out[field.Name] = ZeroValue(field.Kind)
	}
	for key, value := range s.Initial {
		out[key] = value
	}
	return out
}

// Coerce converts a raw control value into the type the kind stores:
// bool for checkboxes, float64 for numbers (when parseable) and string
// otherwise.
func Coerce(kind Kind, raw any) any {
	switch kind {
	case KindCheckbox:
		return coerceBool(raw)
	case KindNumber:
		return coerceNumber(raw)
	default:
		switch v := raw.(type) {
		case nil:
			return ""
		case string:
			return v
		default:
			return fmt.Sprint(v)
		}
	}
}

func coerceBool(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "1", "yes", "checked":
			return true
		}
		return false
	case nil:
		return false
	default:
		if n, ok := ToFloat(v); ok {
			return n != 0
		}
		return false
	}
}

func coerceNumber(raw any) any {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return ""
		}
		if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return n
		}
		return v
	default:
		if n, ok := ToFloat(v); ok {
			return n
		}
		return raw
	}
}

// ToFloat converts numeric values and numeric strings to float64.
func ToFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// IsEmpty reports whether a value counts as absent: nil, or a blank string.
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	default:
		return false
	}
}

// CloneValues returns a shallow copy of a value map.
func CloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}
