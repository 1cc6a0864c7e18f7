package main

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/schema"
)

// parseValues turns key=value pairs into engine values coerced to each
// field's kind.
func parseValues(s schema.Schema, pairs []string) (map[string]any, error) {
	values := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid value %q: expected key=value", pair)
		}
		field, ok := s.Field(key)
		if !ok {
			return nil, fmt.Errorf("unknown field %q", key)
		}
		values[key] = schema.Coerce(field.Kind, raw)
	}
	return values, nil
}

// parseHidden turns name=value pairs into hidden inputs.
func parseHidden(pairs []string) ([]render.HiddenField, error) {
	fields := make([]render.HiddenField, 0, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid hidden field %q: expected name=value", pair)
		}
		fields = append(fields, render.Hidden(name, value))
	}
	return fields, nil
}
