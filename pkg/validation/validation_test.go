package validation_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/validation"
)

func ptrInt(v int) *int           { return &v }
func ptrFloat(v float64) *float64 { return &v }

func userSchema() schema.Schema {
	return schema.Schema{
		Fields: []schema.Field{
			{Name: "name", Label: "Name", Kind: schema.KindText, Required: true, Rules: &schema.Rules{MinLength: ptrInt(3), MaxLength: ptrInt(10)}},
			{Name: "email", Label: "Email", Kind: schema.KindEmail, Rules: &schema.Rules{Pattern: `^[^@\s]+@[^@\s]+$`}},
			{Name: "age", Label: "Age", Kind: schema.KindNumber, Rules: &schema.Rules{Min: ptrFloat(18), Max: ptrFloat(99)}},
			{Name: "code", Label: "Code", Kind: schema.KindText, Rules: &schema.Rules{Min: ptrFloat(5)}},
			{Name: "terms", Label: "Terms", Kind: schema.KindCheckbox, Required: true},
		},
	}
}

func TestValidateField_Chain(t *testing.T) {
	s := userSchema()
	tests := []struct {
		name   string
		field  string
		value  any
		want   string
		failed bool
	}{
		{"required empty", "name", "", "Name is required", true},
		{"required blank", "name", "   ", "Name is required", true},
		{"required nil", "name", nil, "Name is required", true},
		{"too short", "name", "ab", "Name must be at least 3 characters", true},
		{"too long", "name", "abcdefghijk", "Name must be at most 10 characters", true},
		{"ok name", "name", "abc", "", false},
		{"length counts runes", "name", "Gəncə", "", false},
		{"pattern mismatch", "email", "nope", "Email is not in the correct format", true},
		{"pattern ok", "email", "a@b.az", "", false},
		{"optional empty skips pattern", "email", "", "", false},
		{"below min", "age", float64(12), "Age must be at least 18", true},
		{"above max", "age", "120", "Age must be at most 99", true},
		{"numeric string coerced", "age", "30", "", false},
		{"non numeric fails min", "age", "abc", "Age must be at least 18", true},
		{"range ignored for text kind", "code", "1", "", false},
		{"unticked required checkbox", "terms", false, "Terms is required", true},
		{"ticked checkbox", "terms", true, "", false},
		{"unknown field", "ghost", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := map[string]any{tt.field: tt.value}
			got, failed := validation.ValidateField(values, s, tt.field)
			if failed != tt.failed || got != tt.want {
				t.Fatalf("ValidateField(%s=%#v) = (%q, %v), want (%q, %v)", tt.field, tt.value, got, failed, tt.want, tt.failed)
			}
		})
	}
}

func TestValidateField_RequiredWinsOverEveryRule(t *testing.T) {
	custom := func(any, map[string]any) (string, bool) { return "custom", true }
	field := schema.Field{
		Name: "code", Label: "Code", Kind: schema.KindNumber, Required: true,
		Rules: &schema.Rules{Min: ptrFloat(1), Max: ptrFloat(2), MinLength: ptrInt(1), Pattern: "x", Custom: custom},
	}
	s := schema.Schema{Fields: []schema.Field{field}}

	for _, empty := range []any{nil, "", "  "} {
		msg, failed := validation.ValidateField(map[string]any{"code": empty}, s, "code")
		if !failed || msg != "Code is required" {
			t.Fatalf("expected required failure for %#v, got (%q, %v)", empty, msg, failed)
		}
	}
}

func TestValidateField_OptionalEmptyAlwaysPasses(t *testing.T) {
	called := false
	custom := func(any, map[string]any) (string, bool) {
		called = true
		return "custom", true
	}
	s := schema.Schema{Fields: []schema.Field{{
		Name: "code", Kind: schema.KindNumber,
		Rules: &schema.Rules{Min: ptrFloat(1), Pattern: "^x$", Custom: custom},
	}}}

	if msg, failed := validation.ValidateField(map[string]any{"code": ""}, s, "code"); failed {
		t.Fatalf("expected optional empty to pass, got %q", msg)
	}
	if called {
		t.Fatalf("custom predicate must not run for empty optional values")
	}
}

func TestValidateField_CustomIsFinalArbiter(t *testing.T) {
	s := schema.Schema{Fields: []schema.Field{
		{Name: "password", Kind: schema.KindPassword},
		{Name: "confirm", Label: "Confirm", Kind: schema.KindPassword, Rules: &schema.Rules{
			Custom: func(value any, values map[string]any) (string, bool) {
				if value != values["password"] {
					return "Passwords do not match", true
				}
				return "", false
			},
		}},
	}}

	msg, failed := validation.ValidateField(map[string]any{"password": "secret1", "confirm": "secret2"}, s, "confirm")
	if !failed || msg != "Passwords do not match" {
		t.Fatalf("expected custom failure, got (%q, %v)", msg, failed)
	}
	if _, failed := validation.ValidateField(map[string]any{"password": "s", "confirm": "s"}, s, "confirm"); failed {
		t.Fatalf("expected custom pass")
	}
}

func TestValidateAll(t *testing.T) {
	s := userSchema()
	result := validation.ValidateAll(map[string]any{
		"name":  "ab",
		"email": "",
		"age":   float64(40),
		"terms": false,
	}, s)

	want := map[string]string{
		"name":  "Name must be at least 3 characters",
		"terms": "Terms is required",
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if result.Valid {
		t.Fatalf("expected invalid result")
	}

	ok := validation.ValidateAll(map[string]any{"name": "abc", "terms": true, "age": "", "email": ""}, s)
	if !ok.Valid || len(ok.Errors) != 0 {
		t.Fatalf("expected valid result, got %+v", ok)
	}
}

func TestWithMessages(t *testing.T) {
	v := validation.New(validation.WithMessages(validation.Messages{Required: "%s tələb olunur"}))
	s := userSchema()

	msg, _ := v.Field(map[string]any{"name": ""}, s, "name")
	if msg != "Name tələb olunur" {
		t.Fatalf("expected localized message, got %q", msg)
	}
	msg, _ = v.Field(map[string]any{"email": "x"}, s, "email")
	if !strings.HasSuffix(msg, "is not in the correct format") {
		t.Fatalf("expected default pattern message, got %q", msg)
	}
}
