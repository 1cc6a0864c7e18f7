package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/schema"
)

var (
	// ErrOperationNotFound is returned when no operation has the requested id.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrUnsupportedMethod is returned for operations that are not POST or PUT.
	ErrUnsupportedMethod = errors.New("openapi: only POST and PUT operations can back a form")
	// ErrNoRequestBody is returned when the operation has no object request body.
	ErrNoRequestBody = errors.New("openapi: operation has no object request body")
)

var requestMediaTypes = []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"}

// Operation summarises one operation of a document.
type Operation struct {
	ID      string
	Method  string
	Path    string
	Summary string
}

// Option configures document loading.
type Option func(*config)

type config struct {
	externalRefs bool
	validate     bool
}

// WithExternalRefs allows $refs to other documents.
func WithExternalRefs() Option {
	return func(cfg *config) {
		cfg.externalRefs = true
	}
}

// WithValidation validates the document before importing.
func WithValidation() Option {
	return func(cfg *config) {
		cfg.validate = true
	}
}

// Operations lists every operation of the document sorted by id. Operations
// without an operationId are named "<method>:<path>".
func Operations(ctx context.Context, data []byte, opts ...Option) ([]Operation, error) {
	doc, err := load(ctx, data, opts...)
	if err != nil {
		return nil, err
	}

	var out []Operation
	walkOperations(doc, func(method, path string, op *openapi3.Operation) bool {
		out = append(out, Operation{ID: operationID(method, path, op), Method: method, Path: path, Summary: op.Summary})
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// FromOperation builds the form schema of one POST or PUT operation.
func FromOperation(ctx context.Context, data []byte, id string, opts ...Option) (schema.Schema, error) {
	doc, err := load(ctx, data, opts...)
	if err != nil {
		return schema.Schema{}, err
	}

	var (
		method, path string
		found        *openapi3.Operation
	)
	walkOperations(doc, func(m, p string, op *openapi3.Operation) bool {
		if operationID(m, p, op) != id {
			return true
		}
		method, path, found = m, p, op
		return false
	})
	if found == nil {
		return schema.Schema{}, fmt.Errorf("%w: %q", ErrOperationNotFound, id)
	}

	out := schema.Schema{
		ID:    id,
		Title: strings.TrimSpace(found.Summary),
	}
	switch method {
	case http.MethodPost:
		out.CreateTarget = path
	case http.MethodPut:
		out.UpdateTarget = path
	default:
		return schema.Schema{}, fmt.Errorf("%w: %s %s", ErrUnsupportedMethod, method, path)
	}

	body := requestSchema(found)
	if body == nil || len(body.Properties) == 0 {
		return schema.Schema{}, fmt.Errorf("%w: %q", ErrNoRequestBody, id)
	}

	fields, initial := convertProperties(body)
	out.Fields = fields
	if len(initial) > 0 {
		out.Initial = initial
	}
	if mode := stringExtension(body.Extensions, extMode); mode != "" {
		out.Mode = schema.Mode(mode)
	}

	if err := out.Validate(); err != nil {
		return schema.Schema{}, fmt.Errorf("openapi: operation %q: %w", id, err)
	}
	return out, nil
}

func load(ctx context.Context, data []byte, opts ...Option) (*openapi3.T, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi: document is empty")
	}
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = cfg.externalRefs

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if cfg.validate {
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}
	return doc, nil
}

func walkOperations(doc *openapi3.T, fn func(method, path string, op *openapi3.Operation) bool) {
	if doc.Paths == nil {
		return
	}
	paths := doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		for _, entry := range []struct {
			method string
			op     *openapi3.Operation
		}{
			{http.MethodGet, item.Get},
			{http.MethodPost, item.Post},
			{http.MethodPut, item.Put},
			{http.MethodPatch, item.Patch},
			{http.MethodDelete, item.Delete},
		} {
			if entry.op == nil {
				continue
			}
			if !fn(entry.method, path, entry.op) {
				return
			}
		}
	}
}

func operationID(method, path string, op *openapi3.Operation) string {
	if id := strings.TrimSpace(op.OperationID); id != "" {
		return id
	}
	return strings.ToLower(method) + ":" + path
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range requestMediaTypes {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func convertProperties(body *openapi3.Schema) ([]schema.Field, map[string]any) {
	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}

	type entry struct {
		order int
		field schema.Field
	}
	entries := make([]entry, 0, len(body.Properties))
	initial := make(map[string]any)

	for name, ref := range body.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value
		if prop.ReadOnly || typeOf(prop) == openapi3.TypeObject || typeOf(prop) == openapi3.TypeArray {
			continue
		}

		field := convertField(name, prop, required[name])
		if prop.Default != nil {
			initial[name] = schema.Coerce(field.Kind, prop.Default)
		}
		order, ok := intExtension(prop.Extensions, extOrder)
		if !ok {
			order = len(body.Properties) + 1
		}
		entries = append(entries, entry{order: order, field: field})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].order != entries[j].order {
			return entries[i].order < entries[j].order
		}
		return entries[i].field.Name < entries[j].field.Name
	})

	fields := make([]schema.Field, 0, len(entries))
	for _, e := range entries {
		fields = append(fields, e.field)
	}
	return fields, initial
}

func convertField(name string, prop *openapi3.Schema, required bool) schema.Field {
	field := schema.Field{
		Name:        name,
		Label:       strings.TrimSpace(prop.Title),
		Kind:        kindOf(prop),
		Required:    required,
		Description: strings.TrimSpace(prop.Description),
		Placeholder: stringExtension(prop.Extensions, extPlaceholder),
		Dependency:  stringExtension(prop.Extensions, extDependency),
		Source:      stringExtension(prop.Extensions, extSource),
	}

	for _, value := range prop.Enum {
		key := fmt.Sprint(value)
		field.Options = append(field.Options, schema.Option{Value: key, Label: schema.DefaultLabeler(key)})
	}
	if labels := mapExtension(prop.Extensions, extOptionLabels); len(labels) > 0 {
		for i := range field.Options {
			if label, ok := labels[field.Options[i].Value].(string); ok && label != "" {
				field.Options[i].Label = label
			}
		}
	}

	rules := schema.Rules{Pattern: prop.Pattern}
	if prop.Min != nil {
		v := *prop.Min
		rules.Min = &v
	}
	if prop.Max != nil {
		v := *prop.Max
		rules.Max = &v
	}
	if prop.MinLength > 0 {
		v := int(prop.MinLength)
		rules.MinLength = &v
	}
	if prop.MaxLength != nil {
		v := int(*prop.MaxLength)
		rules.MaxLength = &v
	}
	if rules.Pattern != "" || rules.Min != nil || rules.Max != nil || rules.MinLength != nil || rules.MaxLength != nil {
		field.Rules = &rules
	}
	return field
}

func kindOf(prop *openapi3.Schema) schema.Kind {
	if widget := stringExtension(prop.Extensions, extWidget); widget != "" {
		if kind := schema.Kind(widget); kind.Valid() {
			return kind
		}
	}
	if len(prop.Enum) > 0 || stringExtension(prop.Extensions, extSource) != "" {
		return schema.KindSelect
	}

	switch typeOf(prop) {
	case openapi3.TypeBoolean:
		return schema.KindCheckbox
	case openapi3.TypeInteger, openapi3.TypeNumber:
		return schema.KindNumber
	}

	switch prop.Format {
	case "email":
		return schema.KindEmail
	case "password":
		return schema.KindPassword
	case "date", "date-time":
		return schema.KindDate
	case "uri", "url":
		return schema.KindURL
	case "tel", "phone":
		return schema.KindTel
	}
	if prop.MaxLength != nil && *prop.MaxLength > textareaThreshold {
		return schema.KindTextarea
	}
	return schema.KindText
}

// typeOf returns the first declared type; OpenAPI 3.1 documents may list
// "null" alongside it.
func typeOf(prop *openapi3.Schema) string {
	if prop.Type == nil {
		return ""
	}
	for _, t := range prop.Type.Slice() {
		if t != "null" {
			return t
		}
	}
	return ""
}
