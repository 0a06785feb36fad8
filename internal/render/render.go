// Package render turns a url into the document a browser would show for it
// along with the page's visible text.
package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"tennisscout/internal/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("tennisscout.internal.render")

const (
	report_browser_render = "browser-renderer.render"
	report_browser_settle = "browser-renderer.settle"
	report_http_render    = "http-renderer.render"
)

// ErrRender wraps every failure to produce a page, navigation and network
// errors alike.
var ErrRender = errors.New("render failed")

// Page is a url resolved into its rendered document and the flattened
// visible text of its body. It is not meant to outlive the lookup that
// rendered it.
type Page struct {
	URL      string
	HTML     string
	Text     string
	Document *goquery.Document
}

// NewPage parses markup and derives the visible text from the parsed body.
func NewPage(url, markup string) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return Page{}, fmt.Errorf("parse html: %w", err)
	}
	return Page{
		URL:      url,
		HTML:     markup,
		Text:     htmlutil.VisibleText(doc.Find("body")),
		Document: doc,
	}, nil
}

// NewPageWithText is NewPage for callers that already know the visible
// text, like a browser that computed it from the live layout.
func NewPageWithText(url, markup, text string) (Page, error) {
	page, err := NewPage(url, markup)
	if err != nil {
		return Page{}, err
	}
	if strings.TrimSpace(text) != "" {
		page.Text = text
	}
	return page, nil
}

type Renderer interface {
	Render(ctx context.Context, url string) (Page, error)
}

// Options is the content-settle policy. A render waits for the document to
// be parsed (bounded by NavigationTimeout), then up to NetworkIdleTimeout
// for the network to go quiet, then GraceDelay more before capturing.
type Options struct {
	NavigationTimeout  time.Duration
	NetworkIdleTimeout time.Duration
	GraceDelay         time.Duration
	UserAgent          string
}

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"

func DefaultOptions() Options {
	return Options{
		NavigationTimeout:  30 * time.Second,
		NetworkIdleTimeout: 15 * time.Second,
		GraceDelay:         2 * time.Second,
		UserAgent:          defaultUserAgent,
	}
}

// withDefaults fills the zero fields of o from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.NavigationTimeout <= 0 {
		o.NavigationTimeout = d.NavigationTimeout
	}
	if o.NetworkIdleTimeout <= 0 {
		o.NetworkIdleTimeout = d.NetworkIdleTimeout
	}
	if o.GraceDelay < 0 {
		o.GraceDelay = 0
	}
	if o.UserAgent == "" {
		o.UserAgent = d.UserAgent
	}
	return o
}

func millis(d time.Duration) float64 {
	return float64(d.Milliseconds())
}

// sleep waits for d or until ctx is done, whichever is first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
