package render

import (
	"strings"
)

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate calls f.
func (f TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return f(locale, key, args...)
}

// MissingTranslationHandler observes failed lookups.
type MissingTranslationHandler func(locale, key string, err error)

// TranslationKey builds the message key for a form element. Field and
// section keys look like "forms.<form>.fields.<name>.<part>" and
// "forms.<form>.sections.<id>.<part>"; the form title is
// "forms.<form>.title".
func TranslationKey(formID string, parts ...string) string {
	segments := make([]string, 0, len(parts)+2)
	segments = append(segments, "forms", strings.TrimSpace(formID))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return strings.Join(segments, ".")
}

// Localize rewrites the human readable strings of view in place. Lookups that
// fail keep the existing text.
func Localize(view *View, opts RenderOptions) {
	if view == nil || opts.Translator == nil {
		return
	}
	tr := func(fallback string, parts ...string) string {
		return translate(opts, TranslationKey(view.FormID, parts...), fallback)
	}

	view.Title = tr(view.Title, "title")
	view.SubmitLabel = tr(view.SubmitLabel, "submit")
	for i := range view.Sections {
		section := &view.Sections[i]
		if section.ID != "" {
			section.Title = tr(section.Title, "sections", section.ID, "title")
			section.Description = tr(section.Description, "sections", section.ID, "description")
		}
		for j := range section.Fields {
			field := &section.Fields[j]
			field.Label = tr(field.Label, "fields", field.Name, "label")
			field.Placeholder = tr(field.Placeholder, "fields", field.Name, "placeholder")
			field.Description = tr(field.Description, "fields", field.Name, "description")
		}
	}
}

func translate(opts RenderOptions, key, fallback string) string {
	msg, err := opts.Translator.Translate(opts.Locale, key)
	if err != nil || strings.TrimSpace(msg) == "" {
		if err != nil && opts.OnMissing != nil {
			opts.OnMissing(opts.Locale, key, err)
		}
		return fallback
	}
	return msg
}
