package schema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store holds the schemas parsed from a set of documents. Treat it as
// immutable after LoadFS returns.
type Store struct {
	forms   map[string]Schema
	sources map[string]string
}

type documentFile struct {
	Forms map[string]Schema `json:"forms" yaml:"forms"`
}

// Parse decodes a JSON or YAML document holding one or more forms keyed by id.
// The returned schemas are sorted by id and already validated.
func Parse(data []byte, source string) ([]Schema, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("schema: file %s is empty", source)
	}

	var doc documentFile
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = documentFile{}
		if yerr := yaml.Unmarshal(data, &doc); yerr != nil {
			return nil, fmt.Errorf("schema: parse %s: invalid JSON or YAML: %w", source, yerr)
		}
	}
	if len(doc.Forms) == 0 {
		return nil, fmt.Errorf("schema: file %s defines no forms", source)
	}

	ids := make([]string, 0, len(doc.Forms))
	for id := range doc.Forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Schema, 0, len(ids))
	for _, id := range ids {
		trimmed := strings.TrimSpace(id)
		if trimmed == "" {
			return nil, fmt.Errorf("schema: file %s defines an empty form id", source)
		}
		form := normaliseForm(doc.Forms[id], trimmed)
		if err := form.Validate(); err != nil {
			return nil, fmt.Errorf("schema: form %q (file %s): %w", trimmed, source, err)
		}
		out = append(out, form)
	}
	return out, nil
}

// LoadFS walks fsys and parses every JSON/YAML schema document. Form ids must
// be unique across files. A nil fsys yields an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{
		forms:   make(map[string]Schema),
		sources: make(map[string]string),
	}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}
		forms, err := Parse(data, path)
		if err != nil {
			return err
		}
		for _, form := range forms {
			if prev, exists := store.sources[form.ID]; exists {
				return fmt.Errorf("schema: duplicate form %q (files %s and %s)", form.ID, prev, path)
			}
			store.forms[form.ID] = form
			store.sources[form.ID] = path
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Form returns the schema registered under id.
func (s *Store) Form(id string) (Schema, bool) {
	if s == nil {
		return Schema{}, false
	}
	form, ok := s.forms[id]
	return form, ok
}

// IDs lists the stored form ids in sorted order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

func normaliseForm(form Schema, id string) Schema {
	form.ID = id
	for i := range form.Fields {
		field := &form.Fields[i]
		field.Name = strings.TrimSpace(field.Name)
		field.Dependency = strings.TrimSpace(field.Dependency)
		if field.Kind == "" {
			field.Kind = KindText
		}
		if field.Kind == KindNumber {
			if raw, ok := form.Initial[field.Name]; ok {
				if n, ok := ToFloat(raw); ok {
					form.Initial[field.Name] = n
				}
			}
		}
	}
	return form
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
