package render

import (
	"context"
	"fmt"
	"net/http"
	"time"
	"tennisscout/internal/assert"
	"tennisscout/internal/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

type HTTPOptions struct {
	Options
	// RequestsPerSecond bounds how fast pages are fetched, zero means 2.
	RequestsPerSecond float64
}

// HTTPRenderer fetches the served document as-is without running any
// scripts. It is only as good as the server-side rendering of the site,
// but it needs no browser.
type HTTPRenderer struct {
	http *resty.Client
	tel  telemetry.API
}

func NewHTTPRenderer(opts HTTPOptions, tel telemetry.API) HTTPRenderer {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("render", tel)
	opts.Options = opts.Options.withDefaults()
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 2
	}

	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", opts.UserAgent)
	client.SetHeader("accept", "text/html,application/xhtml+xml")
	client.SetTimeout(opts.NavigationTimeout)
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))

	// max burst >= 1 just means that no requests will be dropped
	limiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(client, tel)

	return HTTPRenderer{http: client, tel: tel}
}

func (r HTTPRenderer) Render(ctx context.Context, url string) (Page, error) {
	ctx, span := tracer.Start(ctx, "http:render")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	fail := func(err error) (Page, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		r.tel.ReportBroken(report_http_render, err, url)
		return Page{}, fmt.Errorf("%w: %s: %w", ErrRender, url, err)
	}

	start := time.Now()
	res, err := r.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return fail(fmt.Errorf("fetch: %w", err))
	}
	if res.StatusCode() < http.StatusOK || res.StatusCode() >= http.StatusMultipleChoices {
		return fail(fmt.Errorf("unexpected status %s", res.Status()))
	}
	r.tel.ReportDebug("fetched page", url, time.Since(start).String(), len(res.Body()))

	page, err := NewPage(url, res.String())
	if err != nil {
		return fail(err)
	}
	return page, nil
}
