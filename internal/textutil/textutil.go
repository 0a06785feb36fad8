package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases name, trims it and collapses inner whitespace
// to single spaces.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.TrimSpace(name)
	name = whitespaceRegex.ReplaceAllString(name, " ")
	return name
}

// ContainsFold reports whether substr is within s, ignoring case and
// differences in whitespace.
func ContainsFold(s, substr string) bool {
	substr = NormalizeName(substr)
	if substr == "" {
		return false
	}
	return strings.Contains(NormalizeName(s), substr)
}

// TitleWords turns a url slug like "roger-federer" into "Roger Federer".
func TitleWords(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
