package schema

import (
	"regexp"
	"strings"
	"unicode"
)

var labelSeparators = regexp.MustCompile(`[_\-.\s]+`)

// DefaultLabeler derives a display label from a field name. Separators and
// camelCase boundaries become spaces and a trailing "id" segment is dropped,
// so "department_id" reads "Department" and "firstName" reads "First Name".
func DefaultLabeler(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	var words []string
	for _, chunk := range labelSeparators.Split(name, -1) {
		for _, word := range camelWords(chunk) {
			if word != "" {
				words = append(words, word)
			}
		}
	}
	if len(words) > 1 && strings.EqualFold(words[len(words)-1], "id") {
		words = words[:len(words)-1]
	}

	for i, word := range words {
		words[i] = capitalize(word)
	}
	return strings.Join(words, " ")
}

func camelWords(chunk string) []string {
	if chunk == "" {
		return nil
	}
	runes := []rune(chunk)
	var (
		words []string
		start int
	)
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		split := (unicode.IsLower(prev) && unicode.IsUpper(cur)) ||
			(unicode.IsLetter(prev) && unicode.IsDigit(cur)) ||
			(unicode.IsDigit(prev) && unicode.IsLetter(cur))
		if split {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	return append(words, string(runes[start:]))
}

func capitalize(word string) string {
	runes := []rune(strings.ToLower(word))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
