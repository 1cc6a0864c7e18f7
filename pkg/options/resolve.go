package options

import (
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/transport"
)

var (
	valueKeys = []string{"id", "value"}
	labelKeys = []string{"name", "label", "title"}
)

// resolver returns the options for a field and whether it applied.
type resolver func(l *Loader, field schema.Field, dependencyValue any) ([]schema.Option, bool)

// resolvers are tried in order; the first that applies wins.
var resolvers = []resolver{
	resolveInline,
	resolveCached,
	resolveStatic,
}

// Resolve returns the options to offer for field: the inline per-dependency
// list, then cached remote options, then static options, then nothing.
func (l *Loader) Resolve(fieldName string, dependencyValue any) []schema.Option {
	field, ok := l.schema.Field(fieldName)
	if !ok {
		return []schema.Option{}
	}
	for _, resolve := range resolvers {
		if opts, ok := resolve(l, field, dependencyValue); ok {
			return opts
		}
	}
	return []schema.Option{}
}

func resolveInline(_ *Loader, field schema.Field, dependencyValue any) ([]schema.Option, bool) {
	if field.Dependency == "" || len(field.DependentOptions) == 0 {
		return nil, false
	}
	opts, ok := field.DependentOptions[Key(dependencyValue)]
	if !ok {
		return nil, false
	}
	return append([]schema.Option(nil), opts...), true
}

func resolveCached(l *Loader, field schema.Field, _ any) ([]schema.Option, bool) {
	opts, ok := l.Cached(field.Name)
	if !ok || len(opts) == 0 {
		return nil, false
	}
	return opts, true
}

func resolveStatic(_ *Loader, field schema.Field, _ any) ([]schema.Option, bool) {
	if len(field.Options) == 0 {
		return nil, false
	}
	return append([]schema.Option(nil), field.Options...), true
}

// Normalize converts a response payload into options. Envelopes are unwrapped
// first; objects take their value from id then value and their label from
// name, label then title. Scalars become value and label. Items without a
// value are dropped.
func Normalize(payload transport.Payload) []schema.Option {
	items, ok := transport.Unwrap(payload).([]any)
	if !ok {
		return []schema.Option{}
	}

	out := make([]schema.Option, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case map[string]any:
			value := firstPresent(v, valueKeys)
			if value == "" {
				continue
			}
			label := firstPresent(v, labelKeys)
			if label == "" {
				label = value
			}
			out = append(out, schema.Option{Value: value, Label: label})
		case nil:
			continue
		default:
			key := Key(v)
			if key == "" {
				continue
			}
			out = append(out, schema.Option{Value: key, Label: key})
		}
	}
	return out
}

func firstPresent(obj map[string]any, keys []string) string {
	for _, key := range keys {
		raw, ok := obj[key]
		if !ok || raw == nil {
			continue
		}
		if s := Key(raw); s != "" {
			return s
		}
	}
	return ""
}
