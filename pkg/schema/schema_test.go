package schema_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/schema"
)

func locationSchema() schema.Schema {
	return schema.Schema{
		ID: "institution.create",
		Fields: []schema.Field{
			{Name: "name", Kind: schema.KindText, Required: true},
			{Name: "country", Kind: schema.KindSelect, Options: []schema.Option{{Value: "AZ", Label: "Azerbaijan"}}},
			{Name: "city", Kind: schema.KindSelect, Dependency: "country", Source: "/api/cities"},
			{Name: "active", Kind: schema.KindCheckbox},
			{Name: "capacity", Kind: schema.KindNumber},
		},
		Sections: []schema.Section{{ID: "general", Fields: []string{"name", "country", "city"}}},
		Initial:  map[string]any{"name": "Lyceum", "capacity": 120},
	}
}

func TestValidate_Accepts(t *testing.T) {
	if err := locationSchema().Validate(); err != nil {
		t.Fatalf("expected valid schema, got %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*schema.Schema)
		want   error
	}{
		{
			name:   "duplicate name",
			mutate: func(s *schema.Schema) { s.Fields = append(s.Fields, schema.Field{Name: "name", Kind: schema.KindText}) },
			want:   schema.ErrDuplicateField,
		},
		{
			name:   "missing name",
			mutate: func(s *schema.Schema) { s.Fields = append(s.Fields, schema.Field{Kind: schema.KindText}) },
			want:   schema.ErrFieldNameMissing,
		},
		{
			name:   "unknown kind",
			mutate: func(s *schema.Schema) { s.Fields[0].Kind = "color" },
			want:   schema.ErrUnknownKind,
		},
		{
			name:   "unknown dependency",
			mutate: func(s *schema.Schema) { s.Fields[2].Dependency = "region" },
			want:   schema.ErrUnknownField,
		},
		{
			name:   "self dependency",
			mutate: func(s *schema.Schema) { s.Fields[2].Dependency = "city" },
			want:   schema.ErrSelfDependency,
		},
		{
			name: "cycle",
			mutate: func(s *schema.Schema) {
				s.Fields[1].Dependency = "city"
			},
			want: schema.ErrDependencyCycle,
		},
		{
			name:   "bad pattern",
			mutate: func(s *schema.Schema) { s.Fields[0].Rules = &schema.Rules{Pattern: "(["} },
			want:   schema.ErrInvalidPattern,
		},
		{
			name:   "unknown section field",
			mutate: func(s *schema.Schema) { s.Sections[0].Fields = append(s.Sections[0].Fields, "ghost") },
			want:   schema.ErrUnknownField,
		},
		{
			name:   "unknown mode",
			mutate: func(s *schema.Schema) { s.Mode = "onBlur" },
			want:   schema.ErrUnknownMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := locationSchema()
			tt.mutate(&s)
			err := s.Validate()
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDefaults_OverlayInitialOnKindZeroValues(t *testing.T) {
	got := locationSchema().Defaults()
	want := map[string]any{
		"name":     "Lyceum",
		"country":  "",
		"city":     "",
		"active":   false,
		"capacity": 120,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestDependentsAndSources(t *testing.T) {
	s := locationSchema()
	s.Sources = map[string]string{"city": "/v2/cities"}

	if diff := cmp.Diff([]string{"city"}, s.Dependents("country")); diff != "" {
		t.Fatalf("dependents mismatch (-want +got):\n%s", diff)
	}
	if got := s.SourceFor("city"); got != "/v2/cities" {
		t.Fatalf("expected sources override, got %q", got)
	}
	if got := s.SourceFor("name"); got != "" {
		t.Fatalf("expected no source for name, got %q", got)
	}
	if got := s.ValidationMode(); got != schema.ModeOnSubmit {
		t.Fatalf("expected default mode onSubmit, got %q", got)
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		kind schema.Kind
		raw  any
		want any
	}{
		{schema.KindCheckbox, "on", true},
		{schema.KindCheckbox, "", false},
		{schema.KindCheckbox, true, true},
		{schema.KindNumber, "42.5", 42.5},
		{schema.KindNumber, 7, float64(7)},
		{schema.KindNumber, "", ""},
		{schema.KindNumber, "abc", "abc"},
		{schema.KindText, 12, "12"},
		{schema.KindEmail, nil, ""},
	}
	for _, tt := range tests {
		if got := schema.Coerce(tt.kind, tt.raw); !cmp.Equal(tt.want, got) {
			t.Fatalf("Coerce(%s, %#v) = %#v, want %#v", tt.kind, tt.raw, got, tt.want)
		}
	}
}

func TestDefaultLabeler(t *testing.T) {
	cases := map[string]string{
		"department_id": "Department",
		"firstName":     "First Name",
		"utis-code":     "Utis Code",
		"id":            "Id",
		"address2":      "Address 2",
		"":              "",
	}
	for in, want := range cases {
		if got := schema.DefaultLabeler(in); got != want {
			t.Fatalf("DefaultLabeler(%q) = %q, want %q", in, got, want)
		}
	}
}
