// Package transport defines the collaborator the form engine uses to load
// option lists and submit values, plus an HTTP/JSON implementation.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Payload is a decoded JSON document.
type Payload = any

// Transport issues the three calls the form engine needs.
type Transport interface {
	Get(ctx context.Context, path string, params url.Values) (Payload, error)
	Post(ctx context.Context, path string, body any) (Payload, error)
	Put(ctx context.Context, path string, body any) (Payload, error)
}

// Error is a failed call carrying whatever the server explained: a message and
// field-keyed validation errors.
type Error struct {
	Status  int
	Message string
	Errors  map[string][]string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "transport: <nil>"
	}
	switch {
	case e.Message != "" && e.Status > 0:
		return fmt.Sprintf("transport: status %d: %s", e.Status, e.Message)
	case e.Message != "":
		return "transport: " + e.Message
	case e.Err != nil:
		return "transport: " + e.Err.Error()
	case e.Status > 0:
		return fmt.Sprintf("transport: unexpected status %d", e.Status)
	default:
		return "transport: request failed"
	}
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorFrom extracts a *Error from err's chain.
func ErrorFrom(err error) (*Error, bool) {
	var terr *Error
	if errors.As(err, &terr) && terr != nil {
		return terr, true
	}
	return nil, false
}

// Unwrap returns the useful part of a response envelope: payload.data.data,
// then payload.data, then the payload itself.
func Unwrap(payload Payload) Payload {
	obj, ok := payload.(map[string]any)
	if !ok {
		return payload
	}
	data, ok := obj["data"]
	if !ok {
		return payload
	}
	if inner, ok := data.(map[string]any); ok {
		if nested, ok := inner["data"]; ok {
			return nested
		}
	}
	return data
}

// ErrorFromBody builds an Error from a decoded error response body. Field
// messages may be strings or lists of strings.
func ErrorFromBody(status int, body any) *Error {
	out := &Error{Status: status}
	obj, ok := body.(map[string]any)
	if !ok {
		return out
	}
	if msg, ok := obj["message"].(string); ok {
		out.Message = strings.TrimSpace(msg)
	}
	if raw, ok := obj["errors"].(map[string]any); ok {
		out.Errors = make(map[string][]string, len(raw))
		for field, value := range raw {
			switch v := value.(type) {
			case string:
				out.Errors[field] = []string{v}
			case []any:
				for _, item := range v {
					if s, ok := item.(string); ok {
						out.Errors[field] = append(out.Errors[field], s)
					}
				}
			case []string:
				out.Errors[field] = append([]string(nil), v...)
			}
		}
		if len(out.Errors) == 0 {
			out.Errors = nil
		}
	}
	return out
}
