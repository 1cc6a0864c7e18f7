package form

import (
	"github.com/goliatone/go-formstate/pkg/schema"
)

// Phase is the coarse position of a form in its lifecycle.
type Phase string

const (
	PhasePristine   Phase = "pristine"
	PhaseEditing    Phase = "editing"
	PhaseInvalid    Phase = "invalid"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// State is a point-in-time copy of an engine's state. Mutating it has no
// effect on the engine.
type State struct {
	Values     map[string]any
	Errors     map[string]string
	Touched    map[string]bool
	Options    map[string][]schema.Option
	Loading    bool
	Submitting bool
	Submitted  bool
	Valid      bool
	Dirty      bool
	Phase      Phase
}

func cloneErrors(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}

func cloneTouched(src map[string]bool) map[string]bool {
	out := make(map[string]bool, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}
