// Package formstate is the quick-start entry point: it re-exports the core
// types and wires the bundled renderers so callers can go from a schema to
// rendered HTML without touching the subpackages.
package formstate

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/renderers/html"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/transport"
)

// Schema aliases schema.Schema.
type Schema = schema.Schema

// Field aliases schema.Field.
type Field = schema.Field

// Engine aliases form.Engine.
type Engine = form.Engine

// RenderOptions describes per-request overrides such as the form action,
// hidden fields and form-level errors.
type RenderOptions = render.RenderOptions

// FieldSubset aliases render.FieldSubset for partial rendering.
type FieldSubset = render.FieldSubset

// NewEngine builds a form engine. A nil transport disables option loads and
// submission.
func NewEngine(s Schema, t transport.Transport, options ...form.Option) (*Engine, error) {
	return form.New(s, t, options...)
}

// ParseForm decodes a JSON/YAML schema document and returns the form with id.
// The id may be empty when the document holds a single form.
func ParseForm(data []byte, id string) (Schema, error) {
	forms, err := schema.Parse(data, "document")
	if err != nil {
		return Schema{}, err
	}
	if id == "" && len(forms) == 1 {
		return forms[0], nil
	}
	for _, f := range forms {
		if f.ID == id {
			return f, nil
		}
	}
	return Schema{}, fmt.Errorf("formstate: form %q not found", id)
}

// NewRegistry returns a registry holding the html renderer and the pretty
// text renderer.
func NewRegistry(options ...html.Option) (*render.Registry, error) {
	htmlRenderer, err := html.New(options...)
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	registry.MustRegister(htmlRenderer)
	registry.MustRegister(tui.NewRenderer(tui.OutputFormatPrettyText))
	return registry, nil
}

// RenderHTML renders src with the embedded HTML template.
func RenderHTML(ctx context.Context, src render.Source, options ...render.Option) ([]byte, error) {
	registry, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	out, _, err := registry.Render(ctx, html.Name, src, options...)
	return out, err
}
