package render

import (
	"context"
	"errors"
	"fmt"
	"tennisscout/internal/assert"
	"tennisscout/internal/telemetry"

	"github.com/playwright-community/playwright-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// browserPage is the part of playwright.Page the settle policy drives.
type browserPage interface {
	Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error)
	WaitForLoadState(options ...playwright.PageWaitForLoadStateOptions) error
	Content() (string, error)
	InnerText(selector string, options ...playwright.PageInnerTextOptions) (string, error)
}

type BrowserOptions struct {
	Options
	Headless bool
	// ExecutablePath points at a chromium binary, empty uses the one
	// installed by playwright.
	ExecutablePath string
}

// BrowserRenderer renders pages in a headless chromium so that content
// populated by client-side scripts is present. Every call starts and tears
// down its own browser, nothing is shared between renders.
type BrowserRenderer struct {
	opts BrowserOptions
	tel  telemetry.API
}

func NewBrowserRenderer(opts BrowserOptions, tel telemetry.API) BrowserRenderer {
	assert.NotNil(tel)
	opts.Options = opts.Options.withDefaults()
	return BrowserRenderer{
		opts: opts,
		tel:  telemetry.NewScopedAPI("render", tel),
	}
}

// InstallBrowser downloads the playwright driver and chromium.
func InstallBrowser() error {
	return playwright.Install(&playwright.RunOptions{
		Browsers: []string{"chromium"},
	})
}

func (r BrowserRenderer) Render(ctx context.Context, url string) (Page, error) {
	ctx, span := tracer.Start(ctx, "browser:render")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	fail := func(step string, err error) (Page, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, step)
		r.tel.ReportBroken(report_browser_render, fmt.Errorf("%s: %w", step, err), url)
		return Page{}, fmt.Errorf("%w: %s: %s: %w", ErrRender, url, step, err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return fail("start playwright", err)
	}
	defer func() {
		if err := pw.Stop(); err != nil {
			r.tel.ReportWarning(report_browser_render, fmt.Errorf("stop playwright: %w", err))
		}
	}()

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(r.opts.Headless),
	}
	if r.opts.ExecutablePath != "" {
		launch.ExecutablePath = playwright.String(r.opts.ExecutablePath)
	}
	browser, err := pw.Chromium.Launch(launch)
	if err != nil {
		return fail("launch browser", err)
	}
	defer browser.Close()

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(r.opts.UserAgent),
	})
	if err != nil {
		return fail("new browser context", err)
	}
	defer browserCtx.Close()

	page, err := browserCtx.NewPage()
	if err != nil {
		return fail("new page", err)
	}
	defer page.Close()

	markup, text, err := settle(ctx, page, url, r.opts.Options, r.tel)
	if err != nil {
		return fail("settle", err)
	}

	out, err := NewPageWithText(url, markup, text)
	if err != nil {
		return fail("parse", err)
	}
	span.SetAttributes(attribute.Int("text_length", len(out.Text)))
	return out, nil
}

// settle navigates page to url and waits for its content in three phases:
//  1. the initial document is parsed, bounded by NavigationTimeout
//  2. the network goes idle, bounded by NetworkIdleTimeout
//  3. a fixed GraceDelay
//
// Running out of time in phases 1 and 2 is not an error, whatever has
// rendered by then is captured. Pages that poll or hold a websocket open
// never go idle.
func settle(ctx context.Context, page browserPage, url string, opts Options, tel telemetry.API) (string, string, error) {
	_, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(millis(opts.NavigationTimeout)),
	})
	if err != nil {
		if !errors.Is(err, playwright.ErrTimeout) {
			return "", "", fmt.Errorf("navigate: %w", err)
		}
		tel.ReportWarning(report_browser_settle, fmt.Errorf("navigate: %w", err), url)
	}

	err = page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(millis(opts.NetworkIdleTimeout)),
	})
	if err != nil {
		tel.ReportDebug("network never went idle", url, opts.NetworkIdleTimeout.String(), err)
	}

	err = sleep(ctx, opts.GraceDelay)
	if err != nil {
		return "", "", err
	}

	markup, err := page.Content()
	if err != nil {
		return "", "", fmt.Errorf("capture content: %w", err)
	}
	text, err := page.InnerText("body")
	if err != nil {
		// the markup alone is enough to derive text from
		tel.ReportWarning(report_browser_settle, fmt.Errorf("capture body text: %w", err), url)
		text = ""
	}
	return markup, text, nil
}
