package schema

// Kind is the closed set of input kinds a field can declare. The kind picks
// both the rendered control and the coercion applied to raw input.
type Kind string

const (
	KindText     Kind = "text"
	KindEmail    Kind = "email"
	KindPassword Kind = "password"
	KindNumber   Kind = "number"
	KindSelect   Kind = "select"
	KindTextarea Kind = "textarea"
	KindCheckbox Kind = "checkbox"
	KindDate     Kind = "date"
	KindTel      Kind = "tel"
	KindURL      Kind = "url"
)

// Kinds lists every supported kind in declaration order.
var Kinds = []Kind{
	KindText, KindEmail, KindPassword, KindNumber, KindSelect,
	KindTextarea, KindCheckbox, KindDate, KindTel, KindURL,
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	for _, candidate := range Kinds {
		if k == candidate {
			return true
		}
	}
	return false
}

// Mode controls when the engine re-validates a field after it changes.
type Mode string

const (
	// ModeOnSubmit defers validation until submission (the default).
	ModeOnSubmit Mode = "onSubmit"
	// ModeOnChange re-validates a field every time its value is set.
	ModeOnChange Mode = "onChange"
)

// Option is a selectable value/label pair.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// CustomRule is a caller supplied predicate evaluated after every built-in
// rule passes. It returns the message to surface and whether the value failed.
type CustomRule func(value any, values map[string]any) (string, bool)

// Rules groups the optional validation constraints for a field. Nil pointers
// mean "not configured".
type Rules struct {
	Min       *float64   `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64   `json:"max,omitempty" yaml:"max,omitempty"`
	MinLength *int       `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int       `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern   string     `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Custom    CustomRule `json:"-" yaml:"-"`
}

// Field describes a single input.
type Field struct {
	Name        string `json:"name" yaml:"name"`
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	Kind        Kind   `json:"kind" yaml:"kind"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Rules       *Rules `json:"rules,omitempty" yaml:"rules,omitempty"`

	// Dependency names the field whose current value drives this field's
	// option list.
	Dependency string `json:"dependency,omitempty" yaml:"dependency,omitempty"`
	// Options is the static option list used when nothing better applies.
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`
	// DependentOptions maps a dependency value to an inline option list.
	DependentOptions map[string][]Option `json:"dependentOptions,omitempty" yaml:"dependentOptions,omitempty"`
	// Source is the remote endpoint serving this field's options.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Section groups field names under a titled block. Sections carry no state.
type Section struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []string `json:"fields" yaml:"fields"`
}

// Schema is the full description of one form.
type Schema struct {
	ID       string         `json:"id" yaml:"id"`
	Title    string         `json:"title,omitempty" yaml:"title,omitempty"`
	Fields   []Field        `json:"fields" yaml:"fields"`
	Sections []Section      `json:"sections,omitempty" yaml:"sections,omitempty"`
	Initial  map[string]any `json:"initial,omitempty" yaml:"initial,omitempty"`
	Mode     Mode           `json:"mode,omitempty" yaml:"mode,omitempty"`

	// CreateTarget receives a POST when UpdateTarget is empty.
	CreateTarget string `json:"createTarget,omitempty" yaml:"createTarget,omitempty"`
	// UpdateTarget receives a PUT and takes precedence over CreateTarget.
	UpdateTarget string `json:"updateTarget,omitempty" yaml:"updateTarget,omitempty"`
	// Sources maps field names to remote option endpoints, overriding
	// Field.Source.
	Sources map[string]string `json:"sources,omitempty" yaml:"sources,omitempty"`
}
