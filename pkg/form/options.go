package form

import (
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// SubmitTransform reshapes the current values into the request body.
type SubmitTransform func(values map[string]any) (any, error)

// ResponseTransform reshapes the unwrapped response payload before it is
// handed to the success callback and returned from Submit.
type ResponseTransform func(payload any) (any, error)

// Option configures an Engine.
type Option func(*Engine)

// WithOnSuccess registers the callback invoked with the (transformed) response
// of a successful submission.
func WithOnSuccess(fn func(result any)) Option {
	return func(e *Engine) {
		e.onSuccess = fn
	}
}

// WithOnError registers the callback invoked with a human readable message
// whenever a submission does not succeed.
func WithOnError(fn func(message string)) Option {
	return func(e *Engine) {
		e.onError = fn
	}
}

// WithOnFieldChange registers the callback invoked after SetValue.
func WithOnFieldChange(fn func(name string, value any)) Option {
	return func(e *Engine) {
		e.onFieldChange = fn
	}
}

// WithTransformSubmit sets the submit transform. The default sends the values
// unchanged.
func WithTransformSubmit(fn SubmitTransform) Option {
	return func(e *Engine) {
		if fn != nil {
			e.transformSubmit = fn
		}
	}
}

// WithTransformResponse sets the response transform. The default returns the
// unwrapped payload unchanged.
func WithTransformResponse(fn ResponseTransform) Option {
	return func(e *Engine) {
		if fn != nil {
			e.transformResponse = fn
		}
	}
}

// WithLogger sets the logger. Engines log nothing by default.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithValidator replaces the default validator, typically to localise
// messages.
func WithValidator(v *validation.Validator) Option {
	return func(e *Engine) {
		if v != nil {
			e.validator = v
		}
	}
}

// WithMode overrides the schema's validation mode.
func WithMode(mode schema.Mode) Option {
	return func(e *Engine) {
		if mode != "" {
			e.mode = mode
		}
	}
}

// WithCreateTarget overrides the schema's create target.
func WithCreateTarget(path string) Option {
	return func(e *Engine) {
		e.createTarget = strings.TrimSpace(path)
	}
}

// WithUpdateTarget overrides the schema's update target, switching the form
// to PUT submissions.
func WithUpdateTarget(path string) Option {
	return func(e *Engine) {
		e.updateTarget = strings.TrimSpace(path)
	}
}

func identitySubmit(values map[string]any) (any, error) { return values, nil }

func identityResponse(payload any) (any, error) { return payload, nil }
