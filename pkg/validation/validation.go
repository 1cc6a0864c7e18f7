// Package validation evaluates field values against their schema rules. The
// checks run as an ordered chain and the first failing check produces the
// field's message; validation never returns Go errors.
package validation

import (
	"fmt"
	"regexp"
	"sync"
	"unicode/utf8"

	"github.com/goliatone/go-formstate/pkg/schema"
)

// Messages holds the format strings used for built-in failures. Each format
// receives the field label first and, where relevant, the configured bound.
type Messages struct {
	Required  string
	MinLength string
	MaxLength string
	Min       string
	Max       string
	Pattern   string
}

// DefaultMessages returns the English message set.
func DefaultMessages() Messages {
	return Messages{
		Required:  "%s is required",
		MinLength: "%s must be at least %d characters",
		MaxLength: "%s must be at most %d characters",
		Min:       "%s must be at least %v",
		Max:       "%s must be at most %v",
		Pattern:   "%s is not in the correct format",
	}
}

// Result is the outcome of validating every field in a schema.
type Result struct {
	Errors map[string]string
	Valid  bool
}

// Validator evaluates rules. The zero value is not usable; call New.
type Validator struct {
	messages Messages
	patterns sync.Map // pattern string -> *regexp.Regexp
}

// Option configures a Validator.
type Option func(*Validator)

// WithMessages overrides the message set. Empty entries keep the default.
func WithMessages(messages Messages) Option {
	return func(v *Validator) {
		defaults := DefaultMessages()
		v.messages = Messages{
			Required:  pick(messages.Required, defaults.Required),
			MinLength: pick(messages.MinLength, defaults.MinLength),
			MaxLength: pick(messages.MaxLength, defaults.MaxLength),
			Min:       pick(messages.Min, defaults.Min),
			Max:       pick(messages.Max, defaults.Max),
			Pattern:   pick(messages.Pattern, defaults.Pattern),
		}
	}
}

// New constructs a Validator.
func New(options ...Option) *Validator {
	v := &Validator{messages: DefaultMessages()}
	for _, opt := range options {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

var defaultValidator = New()

// ValidateField validates one field with the default message set.
func ValidateField(values map[string]any, s schema.Schema, name string) (string, bool) {
	return defaultValidator.Field(values, s, name)
}

// ValidateAll validates every field with the default message set.
func ValidateAll(values map[string]any, s schema.Schema) Result {
	return defaultValidator.All(values, s)
}

// check inspects a value and reports (message, failed, stop). stop ends the
// chain without a failure.
type check func(v *Validator, field schema.Field, value any, values map[string]any) (string, bool, bool)

// chain is evaluated in order; reordering it changes precedence.
var chain = []check{
	checkRequired,
	checkOptionalEmpty,
	checkLength,
	checkRange,
	checkPattern,
	checkCustom,
}

// Field returns the message for the named field and whether it failed.
// Unknown field names never fail.
func (v *Validator) Field(values map[string]any, s schema.Schema, name string) (string, bool) {
	field, ok := s.Field(name)
	if !ok {
		return "", false
	}
	value := values[name]
	for _, step := range chain {
		message, failed, stop := step(v, field, value, values)
		if failed {
			return message, true
		}
		if stop {
			return "", false
		}
	}
	return "", false
}

// All validates every schema field in order.
func (v *Validator) All(values map[string]any, s schema.Schema) Result {
	errs := make(map[string]string)
	for _, field := range s.Fields {
		if message, failed := v.Field(values, s, field.Name); failed {
			errs[field.Name] = message
		}
	}
	return Result{Errors: errs, Valid: len(errs) == 0}
}

func checkRequired(v *Validator, field schema.Field, value any, _ map[string]any) (string, bool, bool) {
	if !field.Required {
		return "", false, false
	}
	if isBlank(field, value) {
		return fmt.Sprintf(v.messages.Required, field.DisplayLabel()), true, false
	}
	return "", false, false
}

func checkOptionalEmpty(_ *Validator, field schema.Field, value any, _ map[string]any) (string, bool, bool) {
	return "", false, !field.Required && schema.IsEmpty(value)
}

func checkLength(v *Validator, field schema.Field, value any, _ map[string]any) (string, bool, bool) {
	str, ok := value.(string)
	if !ok || field.Rules == nil {
		return "", false, false
	}
	length := utf8.RuneCountInString(str)
	if min := field.Rules.MinLength; min != nil && length < *min {
		return fmt.Sprintf(v.messages.MinLength, field.DisplayLabel(), *min), true, false
	}
	if max := field.Rules.MaxLength; max != nil && length > *max {
		return fmt.Sprintf(v.messages.MaxLength, field.DisplayLabel(), *max), true, false
	}
	return "", false, false
}

func checkRange(v *Validator, field schema.Field, value any, _ map[string]any) (string, bool, bool) {
	if field.Kind != schema.KindNumber || field.Rules == nil {
		return "", false, false
	}
	if field.Rules.Min == nil && field.Rules.Max == nil {
		return "", false, false
	}
	n, ok := schema.ToFloat(value)
	if !ok {
		// Non-numeric input compares like NaN: every bound fails.
		if field.Rules.Min != nil {
			return fmt.Sprintf(v.messages.Min, field.DisplayLabel(), *field.Rules.Min), true, false
		}
		return fmt.Sprintf(v.messages.Max, field.DisplayLabel(), *field.Rules.Max), true, false
	}
	if min := field.Rules.Min; min != nil && n < *min {
		return fmt.Sprintf(v.messages.Min, field.DisplayLabel(), *min), true, false
	}
	if max := field.Rules.Max; max != nil && n > *max {
		return fmt.Sprintf(v.messages.Max, field.DisplayLabel(), *max), true, false
	}
	return "", false, false
}

func checkPattern(v *Validator, field schema.Field, value any, _ map[string]any) (string, bool, bool) {
	str, ok := value.(string)
	if !ok || field.Rules == nil || field.Rules.Pattern == "" {
		return "", false, false
	}
	re, err := v.compile(field.Rules.Pattern)
	if err != nil || !re.MatchString(str) {
		return fmt.Sprintf(v.messages.Pattern, field.DisplayLabel()), true, false
	}
	return "", false, false
}

func checkCustom(_ *Validator, field schema.Field, value any, values map[string]any) (string, bool, bool) {
	if field.Rules == nil || field.Rules.Custom == nil {
		return "", false, false
	}
	message, failed := field.Rules.Custom(value, values)
	return message, failed, false
}

func (v *Validator) compile(pattern string) (*regexp.Regexp, error) {
	if cached, ok := v.patterns.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	v.patterns.Store(pattern, re)
	return re, nil
}

// isBlank extends schema.IsEmpty with the unticked checkbox.
func isBlank(field schema.Field, value any) bool {
	if field.Kind == schema.KindCheckbox {
		if b, ok := value.(bool); ok {
			return !b
		}
	}
	return schema.IsEmpty(value)
}

func pick(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
