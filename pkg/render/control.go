package render

import "github.com/goliatone/go-formstate/pkg/schema"

// Control is the concrete widget a field kind is projected onto.
type Control string

const (
	ControlInput    Control = "input"
	ControlSelect   Control = "select"
	ControlTextarea Control = "textarea"
	ControlCheckbox Control = "checkbox"
)

// ControlFor maps a field kind to its control.
func ControlFor(kind schema.Kind) Control {
	switch kind {
	case schema.KindSelect:
		return ControlSelect
	case schema.KindTextarea:
		return ControlTextarea
	case schema.KindCheckbox:
		return ControlCheckbox
	default:
		return ControlInput
	}
}

// InputType returns the HTML input type for input controls.
func InputType(kind schema.Kind) string {
	switch kind {
	case schema.KindEmail, schema.KindPassword, schema.KindNumber, schema.KindDate, schema.KindTel, schema.KindURL:
		return string(kind)
	case schema.KindCheckbox:
		return "checkbox"
	default:
		return "text"
	}
}
