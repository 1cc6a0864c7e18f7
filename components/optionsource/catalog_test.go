package optionsource

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/schema"
)

func TestParseCatalogs(t *testing.T) {
	doc := []byte(`
cities:
  AZ:
    - {value: baku, label: Baku}
    - {value: ganja}
countries:
  "":
    - {value: AZ, label: Azerbaijan}
`)
	catalogs, err := ParseCatalogs(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if diff := cmp.Diff([]string{"cities", "countries"}, catalogs.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	want := []schema.Option{{Value: "baku", Label: "Baku"}, {Value: "ganja", Label: "ganja"}}
	if diff := cmp.Diff(want, catalogs["cities"].Lookup(" AZ ")); diff != "" {
		t.Fatalf("cities mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCatalogs_RejectsMissingValue(t *testing.T) {
	if _, err := ParseCatalogs([]byte("cities:\n  AZ:\n    - {label: Baku}\n")); err == nil {
		t.Fatalf("expected error for option without value")
	}
}
