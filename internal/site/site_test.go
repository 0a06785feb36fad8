package site

import (
	"context"
	"testing"
	"tennisscout/internal/htmlutil"
	"tennisscout/internal/render"
	"tennisscout/internal/tour"

	"github.com/stretchr/testify/require"
)

func TestScanAndScorePrefersLabelMatch(t *testing.T) {
	match := htmlutil.Anchor{Name: "Roger FEDERER (SUI)", Href: "https://x/players/roger-federer"}
	others := []htmlutil.Anchor{
		{Name: "Rafael Nadal", Href: "https://x/players/rafael-nadal"},
		{Name: "Novak Djokovic", Href: "https://x/players/novak-djokovic"},
	}

	orders := [][]htmlutil.Anchor{
		{match, others[0], others[1]},
		{others[0], match, others[1]},
		{others[0], others[1], match},
	}
	for _, anchors := range orders {
		href, ok := ScanAndScore(anchors, "roger federer")
		require.True(t, ok)
		require.Equal(t, match.Href, href)
	}
}

func TestScanAndScoreFirstMatchingLabelWins(t *testing.T) {
	anchors := []htmlutil.Anchor{
		{Name: "Rafael Nadal", Href: "https://x/players/rafael-nadal"},
		{Name: "Roger Federer", Href: "https://x/players/roger-federer/1"},
		{Name: "Roger Federer Jr", Href: "https://x/players/roger-federer/2"},
	}
	href, ok := ScanAndScore(anchors, "Roger Federer")
	require.True(t, ok)
	require.Equal(t, "https://x/players/roger-federer/1", href)
}

func TestScanAndScoreFallsBackToFirst(t *testing.T) {
	anchors := []htmlutil.Anchor{
		{Name: "Rafael Nadal", Href: "https://x/players/rafael-nadal"},
		{Name: "Novak Djokovic", Href: "https://x/players/novak-djokovic"},
	}
	href, ok := ScanAndScore(anchors, "Federer")
	require.True(t, ok)
	require.Equal(t, "https://x/players/rafael-nadal", href)

	_, ok = ScanAndScore(nil, "Federer")
	require.False(t, ok)
}

func TestFirst(t *testing.T) {
	href, ok := First([]htmlutil.Anchor{{Href: "a"}, {Href: "b"}})
	require.True(t, ok)
	require.Equal(t, "a", href)

	_, ok = First(nil)
	require.False(t, ok)
}

func TestSearchURL(t *testing.T) {
	require.Equal(t,
		"https://www.atptour.com/en/players?search=Roger+Federer",
		NewATP().SearchURL(" Roger Federer "),
	)
	require.Equal(t,
		"https://www.wtatennis.com/search?term=Iga+%C5%9Awi%C4%85tek",
		NewWTA().SearchURL("Iga Świątek"),
	)
	require.Equal(t,
		"http://127.0.0.1:9000/search?term=coco",
		ForTour(tour.WTA, WithBaseURL("http://127.0.0.1:9000/")).SearchURL("coco"),
	)
}

const atpSearchPage = `<html><body>
<nav><a href="/en/players">Players</a><a href="/en/players?search=">Search</a></nav>
<div class="results">
	<a class="player" href="/en/players/rafael-nadal/n409/overview">Rafael Nadal</a>
	<a class="player" href="/en/players/roger-federer/f324">
		<span>Roger</span> <span>Federer</span>
	</a>
	<a class="player" href="/en/players/roger-federer/f324">Roger Federer</a>
</div>
</body></html>`

func TestATPSelectBestMatch(t *testing.T) {
	adapter := NewATP()
	page, err := render.NewPage(adapter.SearchURL("roger federer"), atpSearchPage)
	require.NoError(t, err)

	href, ok := adapter.SelectBestMatch(context.Background(), page, "Roger Federer")
	require.True(t, ok)
	require.Equal(t, "https://www.atptour.com/en/players/roger-federer/f324/overview", href)

	href, ok = adapter.SelectBestMatch(context.Background(), page, "Somebody Else")
	require.True(t, ok)
	require.Equal(t, "https://www.atptour.com/en/players/rafael-nadal/n409/overview", href)
}

const wtaSearchPage = `<html><body>
<ul>
	<li><a class="search-result-item" href="/players/328560/coco-gauff">Coco Gauff</a></li>
	<li><a class="search-result-item" href="/players/320760/iga-swiatek">Iga Swiatek</a></li>
</ul>
</body></html>`

func TestWTASelectBestMatchIsPositional(t *testing.T) {
	adapter := NewWTA()
	page, err := render.NewPage(adapter.SearchURL("iga"), wtaSearchPage)
	require.NoError(t, err)

	href, ok := adapter.SelectBestMatch(context.Background(), page, "Iga Swiatek")
	require.True(t, ok)
	require.Equal(t, "https://www.wtatennis.com/players/328560/coco-gauff", href)
}

func TestWTASelectBestMatchUntaggedResults(t *testing.T) {
	adapter := NewWTA()
	page, err := render.NewPage(adapter.SearchURL("iga"), `<body>
		<a href="/players">All players</a>
		<a href="/players/320760/iga-swiatek">Iga Swiatek</a>
	</body>`)
	require.NoError(t, err)

	href, ok := adapter.SelectBestMatch(context.Background(), page, "Iga")
	require.True(t, ok)
	require.Equal(t, "https://www.wtatennis.com/players/320760/iga-swiatek", href)
}

func TestSelectBestMatchNoCandidates(t *testing.T) {
	page, err := render.NewPage("https://www.atptour.com/en/players?search=zzz", `<body><p>No results</p><a href="/en/players">Players</a></body>`)
	require.NoError(t, err)

	for _, adapter := range []Adapter{NewATP(), NewWTA()} {
		_, ok := adapter.SelectBestMatch(context.Background(), page, "zzz")
		require.False(t, ok, adapter.Tour())
	}

	_, ok := NewATP().SelectBestMatch(context.Background(), render.Page{}, "zzz")
	require.False(t, ok)
}

func TestATPSelectBestMatchSkipsNavigation(t *testing.T) {
	adapter := NewATP()
	page, err := render.NewPage(adapter.SearchURL("roger federer"), `<html><body>
<nav>
	<a href="/en/players/atp-head-2-head">Head 2 Head</a>
	<a href="/en/players/rankings/singles">Rankings</a>
</nav>
<div class="results">
	<a href="/en/players/roger-federer/f324/overview">FEDERER, R.</a>
</div>
</body></html>`)
	require.NoError(t, err)

	href, ok := adapter.SelectBestMatch(context.Background(), page, "Roger Federer")
	require.True(t, ok)
	require.Equal(t, "https://www.atptour.com/en/players/roger-federer/f324/overview", href)
}

func TestIsProfileLink(t *testing.T) {
	testCases := []struct {
		href     string
		expected bool
	}{
		{"https://www.atptour.com/en/players/roger-federer/f324", true},
		{"https://www.atptour.com/en/players/roger-federer/f324/overview", true},
		{"https://www.wtatennis.com/players/320760/aryna-sabalenka", true},
		{"https://www.atptour.com/en/players/atp-head-2-head", false},
		{"https://www.atptour.com/en/players/roger-federer/f324/bio/2024", false},
		{"https://www.atptour.com/en/players", false},
		{"https://www.atptour.com/en/players?search=roger", false},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expected, isProfileLink(tc.href), tc.href)
	}
}
