package cache

import (
	"slices"
	"tennisscout/internal/textutil"
	"tennisscout/internal/tour"

	"github.com/antzucaro/matchr"
)

// minSimilarity is the Jaro-Winkler score below which a cached name is
// not worth suggesting.
const minSimilarity = 0.75

type Suggestion struct {
	Entry      Entry
	Similarity float64
}

// Suggest ranks the cached players of tour t by how similar their name is
// to name, it returns at most n suggestions, most similar first.
func Suggest(entries []Entry, name string, t tour.Code, n int) []Suggestion {
	name = textutil.NormalizeName(name)

	var out []Suggestion
	for _, e := range entries {
		if e.Key.Tour != t {
			continue
		}
		similarity := matchr.JaroWinkler(name, e.Key.Name, false)
		if similarity < minSimilarity {
			continue
		}
		out = append(out, Suggestion{Entry: e, Similarity: similarity})
	}

	slices.SortStableFunc(out, func(a, b Suggestion) int {
		// flipped to sort descending
		if a.Similarity > b.Similarity {
			return -1
		}
		if a.Similarity < b.Similarity {
			return 1
		}
		return 0
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
