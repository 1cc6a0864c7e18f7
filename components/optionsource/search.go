package optionsource

import (
	"sort"
	"strings"

	"github.com/goliatone/go-formstate/pkg/schema"
)

// Search filters options whose label or value contains query, case
// insensitively. Label prefix matches come first; catalog order is kept
// otherwise.
func Search(list []schema.Option, query string, limit int, opts Options) []schema.Option {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode == EmptySearchNone {
			return nil
		}
		if len(list) > limit {
			list = list[:limit]
		}
		return append([]schema.Option{}, list...)
	}

	q := strings.ToLower(query)
	matches := make([]matchedOption, 0, 16)
	for _, opt := range list {
		label := strings.ToLower(opt.Label)
		if !strings.Contains(label, q) && !strings.Contains(strings.ToLower(opt.Value), q) {
			continue
		}
		matches = append(matches, matchedOption{option: opt, isPrefix: strings.HasPrefix(label, q)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].isPrefix && !matches[j].isPrefix
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]schema.Option, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.option)
	}
	return out
}

type matchedOption struct {
	option   schema.Option
	isPrefix bool
}
