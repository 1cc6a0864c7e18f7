package render

import "strings"

// FieldSubset restricts a view to the named sections and fields. A field is
// kept when it is named or lives in a named section. An empty subset keeps
// everything.
type FieldSubset struct {
	Sections []string
	Fields   []string
}

// ParseSubset reads comma separated section and field lists, as taken from
// query strings or command line flags.
func ParseSubset(sections, fields string) FieldSubset {
	return FieldSubset{
		Sections: parseTokenList(sections),
		Fields:   parseTokenList(fields),
	}
}

// Empty reports whether the subset keeps everything.
func (s FieldSubset) Empty() bool {
	return len(s.Sections) == 0 && len(s.Fields) == 0
}

// ApplySubset prunes view in place. Sections left without fields are dropped.
func ApplySubset(view *View, subset FieldSubset) {
	if view == nil || subset.Empty() {
		return
	}

	sections := normaliseTokens(subset.Sections)
	fields := normaliseTokens(subset.Fields)

	kept := view.Sections[:0]
	for _, section := range view.Sections {
		_, wholeSection := sections[normaliseToken(section.ID)]
		filtered := section.Fields[:0]
		for _, field := range section.Fields {
			if _, named := fields[normaliseToken(field.Name)]; wholeSection || named {
				filtered = append(filtered, field)
			}
		}
		if len(filtered) == 0 {
			continue
		}
		section.Fields = filtered
		kept = append(kept, section)
	}
	view.Sections = kept
}

func parseTokenList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if token := strings.TrimSpace(part); token != "" {
			out = append(out, token)
		}
	}
	return out
}

func normaliseTokens(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, value := range values {
		if token := normaliseToken(value); token != "" {
			out[token] = struct{}{}
		}
	}
	return out
}

func normaliseToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
