package render

import "strings"

// RenderOptions carry per-request data that is not part of the form state.
type RenderOptions struct {
	// Action is the URL the rendered form posts to.
	Action string
	// Method is the submission verb. Renderers that only speak GET/POST
	// downgrade other verbs to POST plus a MethodOverride hidden field.
	Method string
	// Hidden fields are emitted alongside the visible controls.
	Hidden map[string]string
	// FormErrors are form-level messages, typically ErrorMapping.Form.
	FormErrors []string
	// SubmitLabel overrides the submit button caption.
	SubmitLabel string
	// Subset restricts the rendered fields.
	Subset FieldSubset
	// Locale and Translator localise titles, labels, placeholders and
	// descriptions. See Localize for the key layout.
	Locale     string
	Translator Translator
	// OnMissing is invoked when a translation lookup fails. The fallback text
	// is rendered either way.
	OnMissing MissingTranslationHandler
}

// Option mutates RenderOptions.
type Option func(*RenderOptions)

// WithAction sets the form action.
func WithAction(action string) Option {
	return func(o *RenderOptions) {
		o.Action = strings.TrimSpace(action)
	}
}

// WithMethod sets the submission method.
func WithMethod(method string) Option {
	return func(o *RenderOptions) {
		o.Method = strings.ToUpper(strings.TrimSpace(method))
	}
}

// WithHiddenFields appends hidden inputs.
func WithHiddenFields(fields ...HiddenField) Option {
	return func(o *RenderOptions) {
		o.Hidden = MergeHiddenFields(o.Hidden, fields...)
	}
}

// WithFormErrors appends form-level messages.
func WithFormErrors(messages ...string) Option {
	return func(o *RenderOptions) {
		o.FormErrors = MergeFormErrors(o.FormErrors, messages...)
	}
}

// WithSubmitLabel overrides the submit caption.
func WithSubmitLabel(label string) Option {
	return func(o *RenderOptions) {
		o.SubmitLabel = strings.TrimSpace(label)
	}
}

// WithSubset restricts rendering to the matching sections and fields.
func WithSubset(subset FieldSubset) Option {
	return func(o *RenderOptions) {
		o.Subset = subset
	}
}

// WithTranslator localises the view for locale.
func WithTranslator(locale string, t Translator) Option {
	return func(o *RenderOptions) {
		o.Locale = strings.TrimSpace(locale)
		o.Translator = t
	}
}
