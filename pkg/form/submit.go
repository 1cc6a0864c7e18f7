package form

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/transport"
)

const genericSubmitMessage = "An error occurred while submitting the form"

// Submit validates every field and, when the form is valid, sends the
// transformed values to the update target with PUT or the create target with
// POST. On success the unwrapped, transformed response is handed to the
// success callback and returned. On failure field errors reported by the
// server are merged into the error map and the error callback receives a
// single message.
func (e *Engine) Submit(ctx context.Context) (any, error) {
	e.mu.Lock()
	values := schema.CloneValues(e.values)
	e.mu.Unlock()

	result := e.validator.All(values, e.schema)

	e.mu.Lock()
	e.errors = cloneErrors(result.Errors)
	e.submitted = true
	if !result.Valid {
		e.phase = PhaseInvalid
		e.mu.Unlock()
		e.logger.Debug("submit blocked by validation", zap.Int("errors", len(result.Errors)))
		e.notifyError(ErrInvalid.Error())
		return nil, ErrInvalid
	}

	method, target := "PUT", e.updateTarget
	if target == "" {
		method, target = "POST", e.createTarget
	}
	if target == "" || e.transport == nil {
		e.mu.Unlock()
		e.notifyError(ErrNoTarget.Error())
		return nil, ErrNoTarget
	}
	e.submitting = true
	e.phase = PhaseSubmitting
	generation := e.generation
	e.mu.Unlock()

	payload, err := e.send(ctx, method, target, values)
	if err != nil {
		return nil, e.fail(generation, err)
	}

	e.mu.Lock()
	if e.generation == generation {
		e.submitting = false
		e.phase = PhaseSucceeded
	}
	e.mu.Unlock()

	e.logger.Info("form submitted", zap.String("method", method), zap.String("target", target))
	if e.onSuccess != nil {
		e.onSuccess(payload)
	}
	return payload, nil
}

func (e *Engine) send(ctx context.Context, method, target string, values map[string]any) (any, error) {
	body, err := e.transformSubmit(values)
	if err != nil {
		return nil, fmt.Errorf("form: transform submit: %w", err)
	}

	var raw transport.Payload
	if method == "PUT" {
		raw, err = e.transport.Put(ctx, target, body)
	} else {
		raw, err = e.transport.Post(ctx, target, body)
	}
	if err != nil {
		return nil, err
	}

	payload, err := e.transformResponse(transport.Unwrap(raw))
	if err != nil {
		return nil, fmt.Errorf("form: transform response: %w", err)
	}
	return payload, nil
}

func (e *Engine) fail(generation uint64, err error) error {
	message := genericSubmitMessage
	var fieldErrors map[string]string

	if terr, ok := transport.ErrorFrom(err); ok {
		mapping := render.MapErrorPayload(e.schema, terr.Errors)
		fieldErrors = mapping.First()
		switch {
		case terr.Message != "":
			message = terr.Message
		case len(mapping.Form) > 0:
			message = strings.Join(mapping.Form, "\n")
		case errors.Is(terr.Err, context.Canceled):
		case terr.Err != nil:
			message = terr.Err.Error()
		case terr.Status > 0:
			message = terr.Error()
		}
	} else if err != nil && err.Error() != "" {
		message = err.Error()
	}

	e.mu.Lock()
	if e.generation == generation {
		for name, msg := range fieldErrors {
			e.errors[name] = msg
		}
		e.submitting = false
		e.phase = PhaseFailed
	}
	e.mu.Unlock()

	e.logger.Warn("form submission failed", zap.Error(err), zap.Int("field_errors", len(fieldErrors)))
	e.notifyError(message)
	return fmt.Errorf("form: submit: %w", err)
}

func (e *Engine) notifyError(message string) {
	if e.onError != nil {
		e.onError(message)
	}
}
