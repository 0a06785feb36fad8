package profile

import (
	"net/url"
	"strings"
	"tennisscout/internal/extract"
	"tennisscout/internal/htmlutil"
	"tennisscout/internal/render"
	"tennisscout/internal/textutil"
	"unicode"
)

// Unavailable stands in for any field the profile page did not yield.
const Unavailable = "unavailable"

// Field is either an extracted value or Unavailable, never empty.
type Field string

func fieldOf(value string, ok bool) Field {
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return Unavailable
	}
	return Field(value)
}

func (f Field) Available() bool {
	return f != "" && f != Unavailable
}

func (f Field) String() string {
	if f == "" {
		return Unavailable
	}
	return string(f)
}

type Record struct {
	Name           Field
	Age            Field
	Height         Field
	Weight         Field
	Country        Field
	CurrentRank    Field
	CareerHighRank Field
	CareerWinLoss  Field
	SeasonWinLoss  Field
	Titles         Field
}

type LabeledField struct {
	Label string
	Value Field
}

// Fields lists the record in display order.
func (r Record) Fields() []LabeledField {
	return []LabeledField{
		{"Name", r.Name},
		{"Country", r.Country},
		{"Age", r.Age},
		{"Height", r.Height},
		{"Weight", r.Weight},
		{"Current Rank", r.CurrentRank},
		{"Career High Rank", r.CareerHighRank},
		{"Career Win/Loss", r.CareerWinLoss},
		{"Season Win/Loss", r.SeasonWinLoss},
		{"Titles", r.Titles},
	}
}

// Assemble builds a complete record from a rendered profile page. Every
// field is populated, the ones no extractor found are Unavailable.
func Assemble(profileUrl string, page render.Page) Record {
	src := extract.FromPage(page)

	name, ok := NameFromURL(profileUrl)
	if !ok && page.Document != nil {
		name = htmlutil.CleanText(page.Document.Find("h1").First().Text())
		ok = name != ""
	}

	record := FromSource(src)
	record.Name = fieldOf(name, ok)
	return record
}

// FromSource runs every field extractor over src. The name is left
// Unavailable, it does not come from the page body.
func FromSource(src extract.Source) Record {
	winLoss := extract.WinLoss(src)
	titles := extract.Titles(src)

	return Record{
		Name:           Unavailable,
		Age:            fieldOf(extract.Age(src)),
		Height:         fieldOf(extract.Height(src)),
		Weight:         fieldOf(extract.Weight(src)),
		Country:        fieldOf(extract.Country(src)),
		CurrentRank:    fieldOf(extract.CurrentRank(src)),
		CareerHighRank: fieldOf(extract.CareerHighRank(src)),
		CareerWinLoss:  fieldOf(winLoss.Career, winLoss.HasCareer),
		SeasonWinLoss:  fieldOf(winLoss.Season, winLoss.HasSeason),
		Titles:         fieldOf(titles.Career, titles.HasCareer),
	}
}

// NameFromURL takes the player's name from the slug following "players"
// in a profile url, skipping numeric ids:
//
//	/en/players/roger-federer/f324/overview -> Roger Federer
//	/players/320760/aryna-sabalenka         -> Aryna Sabalenka
func NameFromURL(profileUrl string) (string, bool) {
	parsed, err := url.Parse(profileUrl)
	if err != nil {
		return "", false
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i, segment := range segments {
		if segment != "players" {
			continue
		}
		for _, candidate := range segments[i+1:] {
			if candidate == "" || isNumeric(candidate) {
				continue
			}
			name := textutil.TitleWords(candidate)
			return name, name != ""
		}
		return "", false
	}
	return "", false
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
