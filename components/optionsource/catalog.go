package optionsource

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/schema"
)

// Catalog maps a parent value to its options. The empty key holds the list
// served when no parent is given.
type Catalog map[string][]schema.Option

// Lookup returns the options for parent.
func (c Catalog) Lookup(parent string) []schema.Option {
	return c[strings.TrimSpace(parent)]
}

// Catalogs groups catalogs by name, one per endpoint.
type Catalogs map[string]Catalog

// Names lists the catalog names in order.
func (c Catalogs) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseCatalogs decodes a YAML (or JSON) document of the form
//
//	cities:
//	  AZ: [{value: baku, label: Baku}]
//	countries:
//	  "": [{value: AZ, label: Azerbaijan}]
//
// Options without a label use their value.
func ParseCatalogs(data []byte) (Catalogs, error) {
	var raw Catalogs
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("optionsource: parse catalogs: %w", err)
	}
	for name, catalog := range raw {
		for parent, opts := range catalog {
			for i := range opts {
				opts[i].Value = strings.TrimSpace(opts[i].Value)
				if opts[i].Value == "" {
					return nil, fmt.Errorf("optionsource: catalog %q parent %q: option %d has no value", name, parent, i)
				}
				if strings.TrimSpace(opts[i].Label) == "" {
					opts[i].Label = opts[i].Value
				}
			}
		}
	}
	return raw, nil
}
