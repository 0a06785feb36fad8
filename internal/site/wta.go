package site

import (
	"context"
	"net/url"
	"strings"
	"tennisscout/internal/render"
	"tennisscout/internal/tour"
)

const wtaBaseUrl = "https://www.wtatennis.com"

// WTA's site search ranks its results, the first result is the player.
type WTA struct {
	baseUrl string
}

func NewWTA(opts ...Option) WTA {
	c := applyOptions(wtaBaseUrl, opts)
	return WTA{baseUrl: c.baseUrl}
}

func (WTA) Tour() tour.Code {
	return tour.WTA
}

func (w WTA) BaseURL() string {
	return w.baseUrl
}

func (w WTA) SearchURL(name string) string {
	return w.baseUrl + "/search?term=" + url.QueryEscape(strings.TrimSpace(name))
}

func (w WTA) SelectBestMatch(ctx context.Context, page render.Page, _ string) (string, bool) {
	href, ok := First(candidates(ctx, page, w.baseUrl, "a.search-result-item"))
	if ok {
		return href, true
	}
	// older result markup doesn't tag its items
	return First(candidates(ctx, page, w.baseUrl, `a[href*="/players/"]`))
}
