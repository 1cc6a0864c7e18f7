package render

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/options"
	"github.com/goliatone/go-formstate/pkg/schema"
)

const defaultSubmitLabel = "Submit"

// View is a renderer-neutral projection of a form and its live state.
type View struct {
	FormID      string
	Title       string
	Action      string
	Method      string
	SubmitLabel string
	Sections    []SectionView
	Hidden      []HiddenField
	FormErrors  []string
	Submitting  bool
	Loading     bool
}

// SectionView groups fields. The implicit section used for forms without
// declared sections, and for fields no section claims, has an empty ID.
type SectionView struct {
	ID          string
	Title       string
	Description string
	Fields      []FieldView
}

// FieldView is one control.
type FieldView struct {
	Name        string
	Label       string
	Kind        schema.Kind
	Control     Control
	InputType   string
	Required    bool
	Placeholder string
	Description string
	Value       any
	Display     string
	Checked     bool
	Options     []OptionView
	Touched     bool
	Error       string
	ShowError   bool
}

// OptionView is one choice of a select control.
type OptionView struct {
	Value    string
	Label    string
	Selected bool
}

// Fields flattens the sections in render order.
func (v View) Fields() []FieldView {
	var out []FieldView
	for _, section := range v.Sections {
		out = append(out, section.Fields...)
	}
	return out
}

// Field finds a field by name.
func (v View) Field(name string) (FieldView, bool) {
	for _, section := range v.Sections {
		for _, field := range section.Fields {
			if field.Name == name {
				return field, true
			}
		}
	}
	return FieldView{}, false
}

// Project builds the View of src. Errors are only shown on touched fields.
func Project(src Source, opts ...Option) View {
	var cfg RenderOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return ProjectWith(src, cfg)
}

// ProjectWith is Project with prebuilt options.
func ProjectWith(src Source, cfg RenderOptions) View {
	s := src.Schema()
	values := src.Values()
	errs := src.Errors()
	submitted := src.Submitted()

	fields := make(map[string]FieldView, len(s.Fields))
	for _, field := range s.Fields {
		fields[field.Name] = projectField(field, values[field.Name], errs[field.Name], src.Touched(field.Name), submitted, src.Options(field.Name))
	}

	view := View{
		FormID:      s.ID,
		Title:       s.Title,
		Action:      cfg.Action,
		Method:      cfg.Method,
		SubmitLabel: cfg.SubmitLabel,
		FormErrors:  MergeFormErrors(cfg.FormErrors),
		Submitting:  src.Submitting(),
		Loading:     src.Loading(),
	}
	if view.Method == "" {
		view.Method = http.MethodPost
		if s.UpdateTarget != "" {
			view.Method = http.MethodPut
		}
	}
	if view.SubmitLabel == "" {
		view.SubmitLabel = defaultSubmitLabel
	}

	hidden := cfg.Hidden
	if view.Method != http.MethodGet && view.Method != http.MethodPost {
		hidden = MergeHiddenFields(hidden, MethodOverride(view.Method))
	}
	view.Hidden = SortedHiddenFields(hidden)
	view.Sections = group(s, fields)

	ApplySubset(&view, cfg.Subset)
	Localize(&view, cfg)
	return view
}

func group(s schema.Schema, fields map[string]FieldView) []SectionView {
	if len(s.Sections) == 0 {
		section := SectionView{Fields: make([]FieldView, 0, len(s.Fields))}
		for _, field := range s.Fields {
			section.Fields = append(section.Fields, fields[field.Name])
		}
		return []SectionView{section}
	}

	claimed := make(map[string]bool, len(s.Fields))
	sections := make([]SectionView, 0, len(s.Sections)+1)
	for _, declared := range s.Sections {
		section := SectionView{
			ID:          declared.ID,
			Title:       declared.Title,
			Description: declared.Description,
		}
		for _, name := range declared.Fields {
			if field, ok := fields[name]; ok && !claimed[name] {
				section.Fields = append(section.Fields, field)
				claimed[name] = true
			}
		}
		sections = append(sections, section)
	}

	var rest SectionView
	for _, field := range s.Fields {
		if !claimed[field.Name] {
			rest.Fields = append(rest.Fields, fields[field.Name])
		}
	}
	if len(rest.Fields) > 0 {
		sections = append(sections, rest)
	}
	return sections
}

func projectField(field schema.Field, value any, err string, touched, submitted bool, opts []schema.Option) FieldView {
	view := FieldView{
		Name:        field.Name,
		Label:       field.DisplayLabel(),
		Kind:        field.Kind,
		Control:     ControlFor(field.Kind),
		InputType:   InputType(field.Kind),
		Required:    field.Required,
		Placeholder: field.Placeholder,
		Description: field.Description,
		Value:       value,
		Display:     DisplayValue(value),
		Touched:     touched,
		Error:       err,
		ShowError:   (touched || submitted) && err != "",
	}

	if view.Control == ControlCheckbox {
		checked, _ := schema.Coerce(schema.KindCheckbox, value).(bool)
		view.Checked = checked
	}

	if view.Control == ControlSelect {
		selected := options.Key(value)
		view.Options = make([]OptionView, 0, len(opts))
		for _, opt := range opts {
			view.Options = append(view.Options, OptionView{
				Value:    opt.Value,
				Label:    opt.Label,
				Selected: selected != "" && opt.Value == selected,
			})
		}
	}
	return view
}

// DisplayValue formats a field value for a text control.
func DisplayValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case []string:
		return strings.Join(v, ", ")
	default:
		return options.Key(v)
	}
}
