// Package site knows how each tour's website is searched and how the
// profile link is picked out of a search result page.
package site

import (
	"context"
	"net/url"
	"strings"
	"tennisscout/internal/htmlutil"
	"tennisscout/internal/render"
	"tennisscout/internal/textutil"
	"tennisscout/internal/tour"
)

// Adapter is what the resolver needs to know about a tour's website.
type Adapter interface {
	Tour() tour.Code
	BaseURL() string
	// SearchURL is the page that lists the players matching name.
	SearchURL(name string) string
	// SelectBestMatch picks the profile url for name out of a rendered
	// search page, it returns false when the page has no candidates.
	SelectBestMatch(ctx context.Context, page render.Page, name string) (string, bool)
}

type Option func(*config)

type config struct {
	baseUrl string
}

// WithBaseURL points an adapter at another host, tests use it to serve
// fixture pages.
func WithBaseURL(baseUrl string) Option {
	return func(c *config) {
		c.baseUrl = strings.TrimRight(baseUrl, "/")
	}
}

func ForTour(code tour.Code, opts ...Option) Adapter {
	switch code {
	case tour.ATP:
		return NewATP(opts...)
	case tour.WTA:
		return NewWTA(opts...)
	}
	panic("unknown tour: " + string(code))
}

func applyOptions(defaultBase string, opts []Option) config {
	c := config{baseUrl: defaultBase}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// candidates are the anchors in page matching selector that point at a
// player profile, in document order and without duplicate urls.
func candidates(ctx context.Context, page render.Page, baseUrl, selector string) []htmlutil.Anchor {
	if page.Document == nil {
		return nil
	}
	base, err := url.Parse(page.URL)
	if err != nil || page.URL == "" {
		base, err = url.Parse(baseUrl)
		if err != nil {
			base = nil
		}
	}

	seen := map[string]bool{}
	var out []htmlutil.Anchor
	for _, a := range htmlutil.GetAnchors(ctx, page.Document.Find(selector), base) {
		if !isProfileLink(a.Href) || seen[a.Href] {
			continue
		}
		seen[a.Href] = true
		out = append(out, a)
	}
	return out
}

// isProfileLink reports whether href is shaped like a player profile,
// /players/<slug>/<id> (ATP) or /players/<id>/<slug> (WTA), optionally
// followed by /overview, where the id carries a digit. Index, search and navigation pages under
// /players/ don't count.
func isProfileLink(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	_, rest, found := strings.Cut(u.Path, "/players/")
	if !found {
		return false
	}
	segments := strings.Split(strings.Trim(rest, "/"), "/")
	if len(segments) == 3 && segments[2] == "overview" {
		segments = segments[:2]
	}
	if len(segments) != 2 || segments[0] == "" || segments[1] == "" {
		return false
	}
	return isPlayerId(segments[0]) || isPlayerId(segments[1])
}

// isPlayerId matches the short alphanumeric player ids of both sites,
// "f324", "a0e2" or "320760".
func isPlayerId(segment string) bool {
	if len(segment) > 10 {
		return false
	}
	hasDigit := false
	for _, r := range strings.ToLower(segment) {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z':
		default:
			return false
		}
	}
	return hasDigit
}

// ScanAndScore prefers the first candidate whose label contains name
// (ignoring case), and falls back to the first candidate when no label
// does.
func ScanAndScore(anchors []htmlutil.Anchor, name string) (string, bool) {
	if len(anchors) == 0 {
		return "", false
	}
	for _, a := range anchors {
		if textutil.ContainsFold(a.Name, name) {
			return a.Href, true
		}
	}
	return anchors[0].Href, true
}

// First is positional selection for sites whose search already ranks
// its results.
func First(anchors []htmlutil.Anchor) (string, bool) {
	if len(anchors) == 0 {
		return "", false
	}
	return anchors[0].Href, true
}
