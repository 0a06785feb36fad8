package extract

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	leadingNumber = regexp.MustCompile(`^#?\s*(\d{1,4})(?:\D|$)`)

	heightShape = regexp.MustCompile(`(?i)\d+'\s*\d+(?:"|'')?\s*\(\s*\d+\s*cm\s*\)|\d+\s*cm|\d\.\d{1,2}\s*m\b|\d+'\s*\d+(?:"|'')?`)
	weightShape = regexp.MustCompile(`(?i)\d+\s*lbs?(?:\s*\(\s*\d+\s*kg\s*\))?|\d+\s*kg`)

	currentRankText = regexp.MustCompile(`(?i)(high[\s:]*)?(?:^|[^\p{L}])rank(?:ing)?[\s:#]*(\d{1,4})(?:\D|$)`)
	careerHighText  = regexp.MustCompile(`(?i)career[\s-]*high(?:[\s:]*(?:singles[\s:]*)?rank(?:ing)?)?[\s:#]*(\d{1,4})(?:\D|$)`)

	winLossText = regexp.MustCompile(`(\d+)\s*-\s*(\d+)\s*W-L`)
	winLossRow  = regexp.MustCompile(`(\d+)\s*[-/]\s*(\d+)`)
	titlesText  = regexp.MustCompile(`(?i)(\d+)\s*titles?\b`)
)

// Age returns the player's age in years.
func Age(s Source) (string, bool) {
	return safe(func() (string, bool) {
		if value, ok := s.row("Age"); ok {
			if age, ok := number(value); ok {
				return age, true
			}
		}
		return labelValue(s.Text, "Age", number)
	})
}

// Height returns the height as displayed, e.g. 6'1" (185cm).
func Height(s Source) (string, bool) {
	return safe(func() (string, bool) {
		if value, ok := s.row("Height"); ok {
			if h, ok := shaped(heightShape, value); ok {
				return h, true
			}
		}
		return labelValue(s.Text, "Height", func(value string) (string, bool) {
			return shaped(heightShape, value)
		})
	})
}

// Weight returns the weight as displayed, e.g. 187lbs (85kg).
func Weight(s Source) (string, bool) {
	return safe(func() (string, bool) {
		if value, ok := s.row("Weight"); ok {
			if w, ok := shaped(weightShape, value); ok {
				return w, true
			}
		}
		return labelValue(s.Text, "Weight", func(value string) (string, bool) {
			return shaped(weightShape, value)
		})
	})
}

// Country returns the country the player represents, falling back to the
// last part of the birthplace.
func Country(s Source) (string, bool) {
	return safe(func() (string, bool) {
		if value, ok := s.row("Country", "Plays For"); ok && isPlaceName(value) {
			return value, true
		}
		if value, ok := labelValue(s.Text, "Country", placeName); ok {
			return value, true
		}

		if value, ok := s.row("Birthplace"); ok {
			if country, ok := lastPlace(value); ok {
				return country, true
			}
		}
		return labelValue(s.Text, "Birthplace", lastPlace)
	})
}

func placeName(value string) (string, bool) {
	value = strings.TrimSpace(value)
	return value, isPlaceName(value)
}

// lastPlace takes the country out of a birthplace, the part after the
// last comma.
func lastPlace(value string) (string, bool) {
	if i := strings.LastIndex(value, ","); i >= 0 {
		value = value[i+1:]
	}
	return placeName(value)
}

// CurrentRank returns the current singles ranking.
func CurrentRank(s Source) (string, bool) {
	return safe(func() (string, bool) {
		if value, ok := s.row("Rank", "Singles Rank", "Current Rank"); ok {
			if rank, ok := number(value); ok {
				return rank, true
			}
		}
		for _, match := range currentRankText.FindAllStringSubmatch(s.Text, -1) {
			// "Career High Rank 1" is not the current rank.
			if match[1] != "" {
				continue
			}
			return match[2], true
		}
		return "", false
	})
}

// CareerHighRank returns the best singles ranking the player has reached.
func CareerHighRank(s Source) (string, bool) {
	return safe(func() (string, bool) {
		if value, ok := s.row("Career High Rank", "Career High"); ok {
			if rank, ok := number(value); ok {
				return rank, true
			}
		}
		match := careerHighText.FindStringSubmatch(s.Text)
		if match == nil {
			return "", false
		}
		return match[1], true
	})
}

// WinLoss returns the season and career win/loss records, formatted N-M.
func WinLoss(s Source) (pair Pair) {
	defer func() {
		if recover() != nil {
			pair = Pair{}
		}
	}()

	var occurrences []string
	for _, match := range winLossText.FindAllStringSubmatch(s.Text, -1) {
		occurrences = append(occurrences, match[1]+"-"+match[2])
	}
	pair = seasonCareer(occurrences)

	if value, ok := s.row("Win/Loss", "W-L", "Career W-L"); ok {
		if match := winLossRow.FindStringSubmatch(value); match != nil {
			pair.Career = match[1] + "-" + match[2]
			pair.HasCareer = true
		}
	}
	if value, ok := s.row("Season W-L", "YTD W-L"); ok {
		if match := winLossRow.FindStringSubmatch(value); match != nil {
			pair.Season = match[1] + "-" + match[2]
			pair.HasSeason = true
		}
	}
	return pair
}

// Titles returns the season and career title counts.
func Titles(s Source) (pair Pair) {
	defer func() {
		if recover() != nil {
			pair = Pair{}
		}
	}()

	var occurrences []string
	for _, match := range titlesText.FindAllStringSubmatch(s.Text, -1) {
		occurrences = append(occurrences, match[1])
	}
	pair = seasonCareer(occurrences)

	if value, ok := s.row("Titles", "Career Titles"); ok {
		if n, ok := number(value); ok {
			pair.Career = n
			pair.HasCareer = true
		}
	}
	return pair
}

func number(value string) (string, bool) {
	match := leadingNumber.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return "", false
	}
	return match[1], true
}

func shaped(shape *regexp.Regexp, value string) (string, bool) {
	found := shape.FindString(value)
	if found == "" {
		return "", false
	}
	return strings.TrimSpace(found), true
}

func isPlaceName(value string) bool {
	hasLetter := false
	for _, r := range value {
		if unicode.IsDigit(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
