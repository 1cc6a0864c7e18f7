package render

import (
	"context"

	"github.com/goliatone/go-formstate/pkg/schema"
)

// Source is the read side of a live form. *form.Engine satisfies it.
type Source interface {
	Schema() schema.Schema
	Values() map[string]any
	Errors() map[string]string
	Touched(name string) bool
	Options(name string) []schema.Option
	Submitting() bool
	Submitted() bool
	Loading() bool
}

// Renderer turns a projected View into bytes (HTML, terminal text, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View) ([]byte, error)
}
