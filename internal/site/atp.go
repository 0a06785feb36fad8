package site

import (
	"context"
	"net/url"
	"strings"
	"tennisscout/internal/render"
	"tennisscout/internal/tour"
)

const atpBaseUrl = "https://www.atptour.com"

// ATP's player search lists several players per query and does not put
// the closest name first, so every candidate is scanned.
type ATP struct {
	baseUrl string
}

func NewATP(opts ...Option) ATP {
	c := applyOptions(atpBaseUrl, opts)
	return ATP{baseUrl: c.baseUrl}
}

func (ATP) Tour() tour.Code {
	return tour.ATP
}

func (a ATP) BaseURL() string {
	return a.baseUrl
}

func (a ATP) SearchURL(name string) string {
	return a.baseUrl + "/en/players?search=" + url.QueryEscape(strings.TrimSpace(name))
}

func (a ATP) SelectBestMatch(ctx context.Context, page render.Page, name string) (string, bool) {
	anchors := candidates(ctx, page, a.baseUrl, `a.search-result-item, a[href*="/players/"]`)
	href, ok := ScanAndScore(anchors, name)
	if !ok {
		return "", false
	}
	return atpOverview(href), true
}

// atpOverview turns /en/players/<slug>/<id> into the player's overview page.
func atpOverview(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	path := strings.TrimRight(u.Path, "/")
	segments := strings.Split(strings.TrimLeft(path, "/"), "/")
	if len(segments) == 4 && segments[1] == "players" {
		path += "/overview"
	}
	u.Path = path
	return u.String()
}
