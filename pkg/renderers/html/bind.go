package html

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/goliatone/go-formstate/pkg/schema"
)

// Target is the write side of a form engine. *form.Engine satisfies it.
type Target interface {
	Schema() schema.Schema
	SetValue(name string, value any) error
}

// Bind applies posted form data to target through SetValue, coercing each
// raw value to its field kind. Absent checkboxes are unchecked; other absent
// fields are left alone. Keys that match no field are ignored.
func Bind(target Target, form url.Values) error {
	var errs []error
	for _, field := range target.Schema().Fields {
		raw, present := form[field.Name]
		var value any
		switch {
		case field.Kind == schema.KindCheckbox:
			value = present && schema.Coerce(schema.KindCheckbox, last(raw)).(bool)
		case !present:
			continue
		default:
			value = schema.Coerce(field.Kind, last(raw))
		}
		if err := target.SetValue(field.Name, value); err != nil {
			errs = append(errs, fmt.Errorf("html: bind %q: %w", field.Name, err))
		}
	}
	return errors.Join(errs...)
}

func last(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}
