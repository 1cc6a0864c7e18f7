package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrFieldNameMissing = errors.New("schema: field name is required")
	ErrDuplicateField   = errors.New("schema: duplicate field name")
	ErrUnknownKind      = errors.New("schema: unknown field kind")
	ErrUnknownField     = errors.New("schema: unknown field")
	ErrSelfDependency   = errors.New("schema: field depends on itself")
	ErrDependencyCycle  = errors.New("schema: dependency cycle")
	ErrInvalidPattern   = errors.New("schema: invalid pattern")
	ErrUnknownMode      = errors.New("schema: unknown validation mode")
)

// Validate checks the structural invariants of the schema. Every problem is
// reported; the returned error joins them.
func (s Schema) Validate() error {
	var errs []error

	seen := make(map[string]struct{}, len(s.Fields))
	for idx, field := range s.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("%w (index %d)", ErrFieldNameMissing, idx))
			continue
		}
		if _, exists := seen[name]; exists {
			errs = append(errs, fmt.Errorf("%w %q", ErrDuplicateField, name))
		}
		seen[name] = struct{}{}

		if !field.Kind.Valid() {
			errs = append(errs, fmt.Errorf("%w %q on field %q", ErrUnknownKind, field.Kind, name))
		}
		if field.Rules != nil && field.Rules.Pattern != "" {
			if _, err := regexp.Compile(field.Rules.Pattern); err != nil {
				errs = append(errs, fmt.Errorf("%w on field %q: %v", ErrInvalidPattern, name, err))
			}
		}
	}

	for _, field := range s.Fields {
		dep := strings.TrimSpace(field.Dependency)
		if dep == "" {
			continue
		}
		if dep == field.Name {
			errs = append(errs, fmt.Errorf("%w: %q", ErrSelfDependency, field.Name))
			continue
		}
		if _, ok := seen[dep]; !ok {
			errs = append(errs, fmt.Errorf("%w %q referenced as dependency of %q", ErrUnknownField, dep, field.Name))
		}
	}

	if cycle := s.findCycle(); len(cycle) > 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrDependencyCycle, strings.Join(cycle, " -> ")))
	}

	for _, section := range s.Sections {
		for _, name := range section.Fields {
			if _, ok := seen[name]; !ok {
				errs = append(errs, fmt.Errorf("%w %q in section %q", ErrUnknownField, name, section.ID))
			}
		}
	}

	for name := range s.Sources {
		if _, ok := seen[name]; !ok {
			errs = append(errs, fmt.Errorf("%w %q in sources", ErrUnknownField, name))
		}
	}

	switch s.Mode {
	case "", ModeOnSubmit, ModeOnChange:
	default:
		errs = append(errs, fmt.Errorf("%w %q", ErrUnknownMode, s.Mode))
	}

	return errors.Join(errs...)
}

// findCycle follows dependency chains. Each field has at most one dependency
// so a chain either terminates or loops.
func (s Schema) findCycle() []string {
	deps := make(map[string]string, len(s.Fields))
	for _, field := range s.Fields {
		if field.Dependency != "" && field.Dependency != field.Name {
			deps[field.Name] = field.Dependency
		}
	}

	for _, field := range s.Fields {
		path := []string{field.Name}
		visited := map[string]struct{}{field.Name: {}}
		current := field.Name
		for {
			next, ok := deps[current]
			if !ok {
				break
			}
			path = append(path, next)
			if next == field.Name {
				return path
			}
			if _, seen := visited[next]; seen {
				break
			}
			visited[next] = struct{}{}
			current = next
		}
	}
	return nil
}

// Field returns the descriptor registered under name.
func (s Schema) Field(name string) (Field, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Names returns field names in schema order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		names = append(names, field.Name)
	}
	return names
}

// Dependents lists the fields whose dependency is name, in schema order.
func (s Schema) Dependents(name string) []string {
	var out []string
	for _, field := range s.Fields {
		if field.Dependency != "" && field.Dependency == name {
			out = append(out, field.Name)
		}
	}
	return out
}

// SourceFor resolves the remote option endpoint for a field. Entries in
// Schema.Sources win over Field.Source.
func (s Schema) SourceFor(name string) string {
	if src := strings.TrimSpace(s.Sources[name]); src != "" {
		return src
	}
	if field, ok := s.Field(name); ok {
		return strings.TrimSpace(field.Source)
	}
	return ""
}

// ValidationMode returns the configured mode, defaulting to ModeOnSubmit.
func (s Schema) ValidationMode() Mode {
	if s.Mode == "" {
		return ModeOnSubmit
	}
	return s.Mode
}

// DisplayLabel returns the label, deriving one from the name when empty.
func (f Field) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return DefaultLabeler(f.Name)
}
