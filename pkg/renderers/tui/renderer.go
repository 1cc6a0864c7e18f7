package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/schema"
)

// Name is the registry name of the text renderer.
const Name = "text"

// Renderer prints a view for terminals and logs.
type Renderer struct {
	format OutputFormat
	theme  Theme
}

var _ render.Renderer = (*Renderer)(nil)

// NewRenderer builds a text renderer. Unknown formats fall back to pretty
// text.
func NewRenderer(format OutputFormat) *Renderer {
	if format != OutputFormatJSON {
		format = OutputFormatPrettyText
	}
	return &Renderer{format: format, theme: DefaultTheme}
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	if r.format == OutputFormatJSON {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

// Render writes one line per field, or the values as JSON.
func (r *Renderer) Render(_ context.Context, view render.View) ([]byte, error) {
	if r.format == OutputFormatJSON {
		values := make(map[string]any)
		for _, field := range view.Fields() {
			values[field.Name] = field.Value
		}
		out, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode values: %w", err)
		}
		return append(out, '\n'), nil
	}

	var buf bytes.Buffer
	if view.Title != "" {
		fmt.Fprintf(&buf, "%s\n", view.Title)
	}
	for _, message := range view.FormErrors {
		fmt.Fprintf(&buf, "%s%s\n", r.theme.ErrorPrefix, message)
	}
	for _, section := range view.Sections {
		if section.Title != "" {
			fmt.Fprintf(&buf, "\n[%s]\n", section.Title)
		}
		for _, field := range section.Fields {
			marker := ""
			if field.Required {
				marker = "*"
			}
			fmt.Fprintf(&buf, "  %s%s: %s\n", field.Label, marker, display(field))
			if field.ShowError {
				fmt.Fprintf(&buf, "    %s%s\n", r.theme.ErrorPrefix, field.Error)
			}
		}
	}
	return buf.Bytes(), nil
}

func display(field render.FieldView) string {
	switch field.Control {
	case render.ControlCheckbox:
		if field.Checked {
			return "[x]"
		}
		return "[ ]"
	case render.ControlSelect:
		for _, opt := range field.Options {
			if opt.Selected {
				return opt.Label
			}
		}
	}
	if field.Kind == schema.KindPassword && field.Display != "" {
		return "********"
	}
	return field.Display
}
