package testsupport

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/goliatone/go-formstate/pkg/schema"
)

// MustParseSchema parses a JSON/YAML schema document and returns the form
// registered under id.
func MustParseSchema(t *testing.T, doc, id string) schema.Schema {
	t.Helper()

	forms, err := schema.Parse([]byte(doc), t.Name())
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	for _, form := range forms {
		if form.ID == id {
			return form
		}
	}
	t.Fatalf("form %q not found in fixture", id)
	return schema.Schema{}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
