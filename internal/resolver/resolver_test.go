package resolver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tennisscout/internal/cache"
	"tennisscout/internal/render"
	"tennisscout/internal/site"
	"tennisscout/internal/telemetry"
	"tennisscout/internal/tour"

	"github.com/stretchr/testify/require"
)

const base = "https://example"

const federerSearchPage = `<html><body>
<a href="/en/players/rafael-nadal/n409/overview">Rafael Nadal</a>
<a href="/en/players/roger-federer/f324/overview">Roger Federer</a>
</body></html>`

// countingRenderer serves fixture markup for every url and counts calls.
type countingRenderer struct {
	markup string
	err    error
	calls  []string
}

func (r *countingRenderer) Render(ctx context.Context, url string) (render.Page, error) {
	r.calls = append(r.calls, url)
	if r.err != nil {
		return render.Page{}, r.err
	}
	return render.NewPage(url, r.markup)
}

func newResolver(store cache.Store, renderer render.Renderer, tel telemetry.API) Resolver {
	return New(
		store, renderer, tel,
		WithAdapter(site.ForTour(tour.ATP, site.WithBaseURL(base))),
		WithAdapter(site.ForTour(tour.WTA, site.WithBaseURL(base))),
	)
}

func TestResolveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	renderer := &countingRenderer{markup: federerSearchPage}
	r := newResolver(cache.NewMemoryStore(), renderer, &telemetry.Recorder{})

	first, err := r.Resolve(ctx, "Roger Federer", "atp")
	require.NoError(t, err)
	require.False(t, first.Cached)
	require.Equal(t, base+"/en/players/roger-federer/f324/overview", first.URL)

	second, err := r.Resolve(ctx, "  roger   FEDERER ", "ATP")
	require.NoError(t, err)
	require.True(t, second.Cached)
	require.Equal(t, first.URL, second.URL)

	require.Equal(t, []string{base + "/en/players?search=Roger+Federer"}, renderer.calls)
}

func TestResolveCacheHit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player_cache.json")
	err := os.WriteFile(path, []byte(`{"roger federer_atp": "https://example/en/players/roger-federer/overview"}`), 0644)
	require.NoError(t, err)

	renderer := &countingRenderer{}
	tel := &telemetry.Recorder{}
	r := newResolver(cache.NewFileStore(path, tel), renderer, tel)

	result, err := r.Resolve(context.Background(), "Roger Federer", "ATP")
	require.NoError(t, err)
	require.Equal(t, Result{
		Tour:   tour.ATP,
		URL:    "https://example/en/players/roger-federer/overview",
		Cached: true,
	}, result)
	require.Empty(t, renderer.calls)
}

func TestResolveInvalidTour(t *testing.T) {
	renderer := &countingRenderer{markup: federerSearchPage}
	r := newResolver(cache.NewMemoryStore(), renderer, &telemetry.Recorder{})

	for _, name := range []string{"ITF", "", "atp tour"} {
		_, err := r.Resolve(context.Background(), "Roger Federer", name)
		require.ErrorIs(t, err, ErrInvalidTour)
		require.ErrorIs(t, err, tour.ErrInvalid)
	}
	require.Empty(t, renderer.calls)
}

func TestResolveInvalidName(t *testing.T) {
	renderer := &countingRenderer{markup: federerSearchPage}
	r := newResolver(cache.NewMemoryStore(), renderer, &telemetry.Recorder{})

	_, err := r.Resolve(context.Background(), "   ", "wta")
	require.ErrorIs(t, err, ErrInvalidName)
	require.Empty(t, renderer.calls)
}

func TestResolveNotFoundIsNotCached(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	renderer := &countingRenderer{markup: `<body><p>No players found</p></body>`}
	r := newResolver(store, renderer, &telemetry.Recorder{})

	_, err := r.Resolve(ctx, "Nobody", "wta")
	require.ErrorIs(t, err, ErrNotFound)

	_, ok := store.Lookup(ctx, cache.NewKey("Nobody", tour.WTA))
	require.False(t, ok)

	_, err = r.Resolve(ctx, "Nobody", "wta")
	require.ErrorIs(t, err, ErrNotFound)
	require.Len(t, renderer.calls, 2)
}

func TestResolveRenderFailure(t *testing.T) {
	renderer := &countingRenderer{err: errors.New("connection reset")}
	tel := &telemetry.Recorder{}
	r := newResolver(cache.NewMemoryStore(), renderer, tel)

	_, err := r.Resolve(context.Background(), "Roger Federer", "atp")
	require.ErrorIs(t, err, ErrRender)
	require.NotErrorIs(t, err, ErrNotFound)
	require.Equal(t, 1, tel.Count(telemetry.KindWarning, report_resolver_search))
}

// backingStore names the embedded field so it does not collide with the
// Store method below.
type backingStore = cache.Store

type readOnlyStore struct {
	backingStore
}

func (readOnlyStore) Store(context.Context, cache.Key, string) error {
	return errors.New("read-only file system")
}

func TestResolveStoreFailureIsWarning(t *testing.T) {
	tel := &telemetry.Recorder{}
	renderer := &countingRenderer{markup: federerSearchPage}
	r := newResolver(readOnlyStore{cache.NewMemoryStore()}, renderer, tel)

	result, err := r.Resolve(context.Background(), "Roger Federer", "atp")
	require.NoError(t, err)
	require.Equal(t, base+"/en/players/roger-federer/f324/overview", result.URL)
	require.Equal(t, 1, tel.Count(telemetry.KindWarning, report_resolver_store))
}
