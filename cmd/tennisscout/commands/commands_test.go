package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tennisscout/cmd/tennisscout/globals"
	"tennisscout/internal/cache"
	"tennisscout/internal/render"
	"tennisscout/internal/resolver"
	"tennisscout/internal/scout"
	"tennisscout/internal/site"
	"tennisscout/internal/telemetry"
	"tennisscout/internal/tour"

	"github.com/stretchr/testify/require"
)

const base = "https://example"

type pages map[string]string

func (p pages) Render(_ context.Context, url string) (render.Page, error) {
	markup, ok := p[url]
	if !ok {
		return render.Page{}, fmt.Errorf("%w: %s: 404", render.ErrRender, url)
	}
	return render.NewPage(url, markup)
}

func newValue(t *testing.T, store cache.Maintainable, renderer render.Renderer) *globals.Value {
	t.Helper()
	tel := &telemetry.Recorder{}
	r := resolver.New(
		store, renderer, tel,
		resolver.WithAdapter(site.ForTour(tour.ATP, site.WithBaseURL(base))),
		resolver.WithAdapter(site.ForTour(tour.WTA, site.WithBaseURL(base))),
	)
	return &globals.Value{
		Telemetry: tel,
		Cache:     store,
		Scout:     scout.NewService(r, renderer, tel),
		Close:     func() error { return nil },
	}
}

func TestLookupInvalidTour(t *testing.T) {
	var out bytes.Buffer
	err := runLookup(context.Background(), &out, newValue(t, cache.NewMemoryStore(), pages{}), "Roger Federer", "itf", false)
	require.NoError(t, err)
	require.Equal(t, "❌ Invalid tour.\n", out.String())
}

func TestLookupNotFoundSuggests(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	err := store.Store(ctx, cache.NewKey("Roger Federer", tour.ATP), base+"/en/players/roger-federer/f324/overview")
	require.NoError(t, err)

	renderer := pages{
		base + "/en/players?search=roger+federe": `<body><p>No results</p></body>`,
	}

	var out bytes.Buffer
	err = runLookup(ctx, &out, newValue(t, store, renderer), "roger federe", "atp", false)
	require.NoError(t, err)
	require.Equal(t, "❌ Player not found.\nDid you mean: roger federer?\n", out.String())
}

func TestLookupRenderFailure(t *testing.T) {
	var out bytes.Buffer
	err := runLookup(context.Background(), &out, newValue(t, cache.NewMemoryStore(), pages{}), "Roger Federer", "atp", false)
	require.ErrorIs(t, err, render.ErrRender)
	require.Empty(t, out.String())
}

func TestLookupPrintsProfile(t *testing.T) {
	ctx := context.Background()
	profileUrl := base + "/en/players/roger-federer/f324/overview"
	store := cache.NewMemoryStore()
	err := store.Store(ctx, cache.NewKey("Roger Federer", tour.ATP), profileUrl)
	require.NoError(t, err)

	renderer := pages{
		profileUrl: `<html><body>
<div>Country</div><div>Switzerland</div>
<div>1251 - 275 W-L</div>
</body></html>`,
	}

	var out bytes.Buffer
	err = runLookup(ctx, &out, newValue(t, store, renderer), "roger federer", "ATP", true)
	require.NoError(t, err)

	printed := out.String()
	for _, expected := range []string{
		"player profile (atp)",
		"roger federer",
		"switzerland",
		"career win/loss",
		"1251-275",
		"grand slams",
		"surface records",
		"recent matches",
		profileUrl,
	} {
		require.Contains(t, strings.ToLower(printed), expected)
	}
	require.Less(t, strings.Index(printed, "Country"), strings.Index(printed, "Age"))
	require.Less(t, strings.Index(printed, "Career Win/Loss"), strings.Index(printed, "Season Win/Loss"))
}

func TestPrompt(t *testing.T) {
	var out bytes.Buffer
	name, tourName, ok := prompt(strings.NewReader("  Iga Swiatek \nwta\n"), &out)
	require.True(t, ok)
	require.Equal(t, "Iga Swiatek", name)
	require.Equal(t, "wta", tourName)
	require.Equal(t, "Search player name: Tour (ATP/WTA): ", out.String())

	_, _, ok = prompt(strings.NewReader("Iga Swiatek\n"), &out)
	require.False(t, ok)
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tennisscout.json5")
	err := os.WriteFile(path, []byte(`{
		// slower machines need more time
		render: {
			navigation_timeout_ms: 5000,
			grace_delay_ms: 0,
			headless: false,
		},
		cache: { file: "players.json" },
	}`), 0644)
	require.NoError(t, err)

	cfg, err := readConfig(path)
	require.NoError(t, err)

	opts := cfg.renderOptions()
	require.Equal(t, 5*time.Second, opts.NavigationTimeout)
	require.Equal(t, 15*time.Second, opts.NetworkIdleTimeout)
	require.Equal(t, time.Duration(0), opts.GraceDelay)
	require.False(t, cfg.headless())
	require.Equal(t, "players.json", cfg.cacheFile())

	missing, err := readConfig(filepath.Join(dir, "missing.json5"))
	require.NoError(t, err)
	require.True(t, missing.headless())
	require.Equal(t, defaultCacheFile, missing.cacheFile())
	require.Equal(t, 2*time.Second, missing.renderOptions().GraceDelay)
}

func TestMenuRejectsTourBeforeSearching(t *testing.T) {
	var out bytes.Buffer
	err := runMenu(context.Background(), strings.NewReader("Roger Federer\nitf\n"), &out, newValue(t, cache.NewMemoryStore(), pages{}))
	require.NoError(t, err)
	require.Equal(t, "Search player name: Tour (ATP/WTA): ❌ Invalid tour.\n", out.String())
	require.NotContains(t, out.String(), "Searching")
}

func TestCloseAfterFailedCommand(t *testing.T) {
	closed := 0
	active = &globals.Value{
		Close: func() error {
			closed++
			return nil
		},
	}

	failure := fmt.Errorf("%w: profile", render.ErrRender)
	err := closeAfter(func() error { return failure })
	require.ErrorIs(t, err, render.ErrRender)
	require.Equal(t, 1, closed)
	require.Nil(t, active)

	// nothing set up, nothing to close
	require.NoError(t, closeAfter(func() error { return nil }))
	require.Equal(t, 1, closed)
}
