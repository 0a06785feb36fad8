// Package extract pulls single profile fields out of a rendered page.
//
// Every field is extracted in layers: a label/value row in the document is
// tried first, and when the page no longer exposes one the flattened
// visible text is searched for the value following the field's label.
// The text layer is the one that survives redesigns, class names on the
// profile pages change with every script bundle while the labels don't.
//
// Extractors are independent of each other, a field that cannot be found
// is reported as absent and never affects any other field.
package extract

import (
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
	"tennisscout/internal/htmlutil"
	"tennisscout/internal/render"
)

// Source is what extractors read from, built once per rendered page.
type Source struct {
	Text string
	// Rows holds label -> value pairs from table rows and definition lists.
	Rows map[string]string
}

func FromPage(p render.Page) Source {
	s := Source{Text: p.Text}
	if p.Document != nil {
		s.Rows = htmlutil.LabelRows(p.Document.Selection)
	}
	return s
}

func FromText(text string) Source {
	return Source{Text: text}
}

// row looks up the first of labels present in the structured rows,
// labels compare case-insensitively.
func (s Source) row(labels ...string) (string, bool) {
	for _, label := range labels {
		for key, value := range s.Rows {
			if strings.EqualFold(strings.TrimRight(key, ": "), label) {
				return value, true
			}
		}
	}
	return "", false
}

// knownLabels end a free text value, the flattened text does not always
// separate one label's value from the next label.
var knownLabels = []string{
	"Age", "Height", "Weight", "Country", "Birthplace", "Plays", "Turned Pro",
	"Coach", "Residence", "Rank", "Career High", "Backhand", "Date of Birth",
	"Prize Money", "W-L", "Titles", "Singles", "Doubles",
}

var (
	labelRegexes   = map[string]*regexp.Regexp{}
	labelRegexesMu sync.Mutex
)

func labelRegex(label string) *regexp.Regexp {
	labelRegexesMu.Lock()
	defer labelRegexesMu.Unlock()

	re, ok := labelRegexes[label]
	if ok {
		return re
	}
	re = regexp.MustCompile(`(?i)(?:^|[^\p{L}])(` + regexp.QuoteMeta(label) + `)`)
	labelRegexes[label] = re
	return re
}

// labelValues returns the text following every occurrence of label, each
// up to the end of its line or the next known label, whichever is first.
// Occurrences that start a line come before ones in running text (a
// "Filter by Country" control is not the country field). A label directly
// followed by another label has no value and is left out.
func labelValues(text, label string) []string {
	var lineStart, inline []string
	for _, loc := range labelRegex(label).FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[2], loc[3]
		// "Age" is not a label inside "Agenda"
		if next, _ := utf8.DecodeRuneInString(text[end:]); unicode.IsLetter(next) {
			continue
		}

		rest := strings.TrimLeft(text[end:], " \t\r\n:")
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			rest = rest[:i]
		}
		for _, other := range knownLabels {
			if strings.EqualFold(other, label) {
				continue
			}
			if i := strings.Index(rest, other); i >= 0 {
				rest = rest[:i]
			}
		}
		value := strings.Trim(rest, " \t:-|")
		if value == "" {
			continue
		}

		if start == 0 || text[start-1] == '\n' {
			lineStart = append(lineStart, value)
		} else {
			inline = append(inline, value)
		}
	}
	return append(lineStart, inline...)
}

// labelValue returns the first value following label that fit accepts,
// fit also normalizes the value it accepts.
func labelValue(text, label string, fit func(string) (string, bool)) (string, bool) {
	for _, value := range labelValues(text, label) {
		if fitted, ok := fit(value); ok {
			return fitted, true
		}
	}
	return "", false
}

// safe keeps a misbehaving extractor from taking the others down with it.
func safe(fn func() (string, bool)) (value string, ok bool) {
	defer func() {
		if recover() != nil {
			value, ok = "", false
		}
	}()
	return fn()
}

// Pair is a statistic the profile shows twice, once for the current
// season and once for the whole career.
type Pair struct {
	Season    string
	Career    string
	HasSeason bool
	HasCareer bool
}

// seasonCareer assigns occurrences by position. With two or more, the
// first is the season total and the second the career total; a lone
// occurrence is taken as the career total.
//
// Nothing in the text itself says which occurrence is which, this relies
// on the season block being laid out before the career block. If a page
// ever swaps them the two values swap too.
func seasonCareer(occurrences []string) Pair {
	switch {
	case len(occurrences) >= 2:
		return Pair{
			Season:    occurrences[0],
			Career:    occurrences[1],
			HasSeason: true,
			HasCareer: true,
		}
	case len(occurrences) == 1:
		return Pair{Career: occurrences[0], HasCareer: true}
	}
	return Pair{}
}
