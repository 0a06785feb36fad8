// Package resolver turns a player name and tour into the player's profile
// url, searching the tour's website only when the cache does not already
// know the answer.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"tennisscout/internal/assert"
	"tennisscout/internal/cache"
	"tennisscout/internal/render"
	"tennisscout/internal/site"
	"tennisscout/internal/telemetry"
	"tennisscout/internal/textutil"
	"tennisscout/internal/tour"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("tennisscout.internal.resolver")

const (
	report_resolver_store  = "resolver.store"
	report_resolver_search = "resolver.search"
)

var (
	ErrInvalidTour = errors.New("invalid tour")
	ErrInvalidName = errors.New("invalid player name")
	// ErrNotFound means the search page had no candidate profiles, it is
	// never cached so the next lookup searches again.
	ErrNotFound = errors.New("player not found")
	// ErrRender is a transient failure to load the search page.
	ErrRender = render.ErrRender
)

type Result struct {
	Tour   tour.Code
	URL    string
	Cached bool
}

type Resolver struct {
	store    cache.Store
	renderer render.Renderer
	adapters map[tour.Code]site.Adapter
	tel      telemetry.API
}

type Option func(r *Resolver)

// WithAdapter replaces the site adapter used for the adapter's tour.
func WithAdapter(adapter site.Adapter) Option {
	return func(r *Resolver) {
		r.adapters[adapter.Tour()] = adapter
	}
}

func New(store cache.Store, renderer render.Renderer, tel telemetry.API, opts ...Option) Resolver {
	assert.NotNil(store)
	assert.NotNil(renderer)
	assert.NotNil(tel)

	r := Resolver{
		store:    store,
		renderer: renderer,
		tel:      telemetry.NewScopedAPI("resolver", tel),
		adapters: map[tour.Code]site.Adapter{
			tour.ATP: site.ForTour(tour.ATP),
			tour.WTA: site.ForTour(tour.WTA),
		},
	}
	for _, o := range opts {
		o(&r)
	}
	return r
}

// Resolve returns the profile url for name on tourName. A cached url is
// returned without touching the network, otherwise the tour's search page
// is rendered, the best match picked and remembered.
func (r Resolver) Resolve(ctx context.Context, name, tourName string) (Result, error) {
	ctx, span := tracer.Start(ctx, "Resolve")
	defer span.End()

	code, err := tour.Parse(tourName)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidTour, err)
	}
	name = strings.TrimSpace(name)
	if textutil.NormalizeName(name) == "" {
		return Result{}, ErrInvalidName
	}

	key := cache.NewKey(name, code)
	span.SetAttributes(
		attribute.String("key", key.String()),
		attribute.String("tour", code.String()),
	)

	if profileUrl, ok := r.store.Lookup(ctx, key); ok {
		span.SetAttributes(attribute.Bool("cached", true))
		return Result{Tour: code, URL: profileUrl, Cached: true}, nil
	}

	adapter, ok := r.adapters[code]
	if !ok {
		return Result{}, fmt.Errorf("%w: no site for %s", ErrInvalidTour, code.Display())
	}

	searchUrl := adapter.SearchURL(name)
	page, err := r.renderer.Render(ctx, searchUrl)
	if err != nil {
		r.tel.ReportWarning(report_resolver_search, searchUrl, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "render search page")
		return Result{}, fmt.Errorf("%w: search %q: %w", ErrRender, name, err)
	}

	profileUrl, ok := adapter.SelectBestMatch(ctx, page, name)
	if !ok {
		r.tel.ReportDebug("no candidates", "name", name, "tour", code.String())
		return Result{}, fmt.Errorf("%w: %q on %s", ErrNotFound, name, code.Display())
	}

	err = r.store.Store(ctx, key, profileUrl)
	if err != nil {
		r.tel.ReportWarning(report_resolver_store, err)
	}
	return Result{Tour: code, URL: profileUrl}, nil
}
