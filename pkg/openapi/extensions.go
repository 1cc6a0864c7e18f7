package openapi

import (
	"encoding/json"
	"strconv"
	"strings"
)

const (
	extWidget       = "x-formstate-widget"
	extSource       = "x-formstate-source"
	extDependency   = "x-formstate-dependency"
	extPlaceholder  = "x-formstate-placeholder"
	extOrder        = "x-formstate-order"
	extOptionLabels = "x-formstate-option-labels"
	extMode         = "x-formstate-mode"

	// strings allowed to grow past this many characters get a textarea
	textareaThreshold = 255
)

func stringExtension(ext map[string]any, key string) string {
	switch v := ext[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.RawMessage:
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func intExtension(ext map[string]any, key string) (int, bool) {
	switch v := ext[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	case json.RawMessage:
		var n int
		if err := json.Unmarshal(v, &n); err == nil {
			return n, true
		}
	}
	return 0, false
}

func mapExtension(ext map[string]any, key string) map[string]any {
	switch v := ext[key].(type) {
	case map[string]any:
		return v
	case json.RawMessage:
		var m map[string]any
		if err := json.Unmarshal(v, &m); err == nil {
			return m
		}
	}
	return nil
}
