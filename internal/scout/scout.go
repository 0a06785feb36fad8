// Package scout looks a player up end to end: resolve the profile url,
// render the profile and assemble the record, plus the optional extras
// that live on the profile's sibling pages.
package scout

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"tennisscout/internal/assert"
	"tennisscout/internal/htmlutil"
	"tennisscout/internal/profile"
	"tennisscout/internal/render"
	"tennisscout/internal/resolver"
	"tennisscout/internal/telemetry"
	"tennisscout/internal/tour"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("tennisscout.internal.scout")

const (
	report_scout_profile     = "scout.profile"
	report_scout_performance = "scout.performance"
	report_scout_matches     = "scout.matches"
	report_scout_grand_slams = "scout.grand-slams"
)

const recentMatchesLimit = 5

// NotApplicable is shown for extras a tour's site does not publish.
const NotApplicable = "N/A"

type Resolver interface {
	Resolve(ctx context.Context, name, tourName string) (resolver.Result, error)
}

type Options struct {
	// Extras also renders the performance, matches and titles pages.
	Extras bool
}

type Surface struct {
	Surface string
	Record  string
}

type Match struct {
	Tournament string
	Round      string
	Opponent   string
	Result     string
}

type Extras struct {
	Surfaces      []Surface
	RecentMatches []Match
	GrandSlams    profile.Field
}

type Report struct {
	Tour    tour.Code
	URL     string
	Cached  bool
	Profile profile.Record
	// Extras is nil unless requested.
	Extras *Extras
}

type Service struct {
	resolver Resolver
	renderer render.Renderer
	tel      telemetry.API
}

func NewService(r Resolver, renderer render.Renderer, tel telemetry.API) Service {
	assert.NotNil(r)
	assert.NotNil(renderer)
	assert.NotNil(tel)
	return Service{
		resolver: r,
		renderer: renderer,
		tel:      telemetry.NewScopedAPI("scout", tel),
	}
}

// Lookup resolves name on tourName and extracts the player's profile.
// Resolver errors are returned as is, a profile page that fails to render
// is an error of its own. Extras never fail the lookup, each one degrades
// to empty or unavailable.
func (s Service) Lookup(ctx context.Context, name, tourName string, opts Options) (Report, error) {
	ctx, span := tracer.Start(ctx, "Lookup")
	defer span.End()

	resolved, err := s.resolver.Resolve(ctx, name, tourName)
	if err != nil {
		return Report{}, err
	}
	span.SetAttributes(
		attribute.String("url", resolved.URL),
		attribute.Bool("cached", resolved.Cached),
	)

	page, err := s.renderer.Render(ctx, resolved.URL)
	if err != nil {
		s.tel.ReportWarning(report_scout_profile, resolved.URL, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "render profile")
		return Report{}, fmt.Errorf("render profile %s: %w", resolved.URL, err)
	}

	report := Report{
		Tour:    resolved.Tour,
		URL:     resolved.URL,
		Cached:  resolved.Cached,
		Profile: profile.Assemble(resolved.URL, page),
	}
	if !opts.Extras {
		return report, nil
	}

	var extras Extras
	var season profile.Field
	season, extras.Surfaces = s.performance(ctx, resolved.URL)
	extras.RecentMatches = s.recentMatches(ctx, resolved.URL)
	extras.GrandSlams = s.grandSlams(ctx, resolved.Tour, resolved.URL)

	if !report.Profile.SeasonWinLoss.Available() && season.Available() {
		report.Profile.SeasonWinLoss = season
	}
	report.Extras = &extras
	return report, nil
}

// SectionURL points a profile url at one of its sibling pages, e.g.
// .../f324/overview -> .../f324/performance.
func SectionURL(profileUrl, section string) string {
	if strings.Contains(profileUrl, "/overview") {
		return strings.Replace(profileUrl, "/overview", "/"+section, 1)
	}
	return strings.TrimRight(profileUrl, "/") + "/" + section
}

func (s Service) section(ctx context.Context, profileUrl, section, reportId string) (*goquery.Document, bool) {
	url := SectionURL(profileUrl, section)
	page, err := s.renderer.Render(ctx, url)
	if err != nil {
		s.tel.ReportWarning(reportId, url, err)
		return nil, false
	}
	if page.Document == nil {
		return nil, false
	}
	return page.Document, true
}

func (s Service) performance(ctx context.Context, profileUrl string) (profile.Field, []Surface) {
	doc, ok := s.section(ctx, profileUrl, "performance", report_scout_performance)
	if !ok {
		return profile.Unavailable, nil
	}

	season := profile.Field(htmlutil.CleanText(doc.Find(".performance-season-record").First().Text()))
	if season == "" {
		season = profile.Unavailable
	}

	var surfaces []Surface
	doc.Find(".surface-breakdown tr").Each(func(_ int, tr *goquery.Selection) {
		surface := htmlutil.CleanText(tr.Find("th").First().Text())
		record := htmlutil.CleanText(tr.Find("td").First().Text())
		if surface == "" {
			return
		}
		surfaces = append(surfaces, Surface{Surface: surface, Record: record})
	})
	return season, surfaces
}

func (s Service) recentMatches(ctx context.Context, profileUrl string) []Match {
	doc, ok := s.section(ctx, profileUrl, "matches", report_scout_matches)
	if !ok {
		return nil
	}

	var matches []Match
	doc.Find(".match-row").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		text := func(selector string) string {
			return htmlutil.CleanText(row.Find(selector).First().Text())
		}
		m := Match{
			Tournament: text(".tourney-title"),
			Round:      text(".round"),
			Opponent:   text(".opponent-name"),
			Result:     text(".score"),
		}
		if m == (Match{}) {
			return true
		}
		matches = append(matches, m)
		return len(matches) < recentMatchesLimit
	})
	return matches
}

func (s Service) grandSlams(ctx context.Context, t tour.Code, profileUrl string) profile.Field {
	if t != tour.ATP {
		return NotApplicable
	}
	doc, ok := s.section(ctx, profileUrl, "titles-and-finals", report_scout_grand_slams)
	if !ok {
		return profile.Unavailable
	}
	return profile.Field(strconv.Itoa(doc.Find(".tournament-type-grand-slam").Length()))
}
