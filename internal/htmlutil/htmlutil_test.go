package htmlutil

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func parse(t testing.TB, markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func TestVisibleText(t *testing.T) {
	doc := parse(t, `<html><head><title>ignored</title><style>.x{}</style></head>
<body>
	<script>window.__state = {"rank": 1}</script>
	<div class="hero">   <h1>Roger   Federer</h1>
		<span>Age</span><span>43</span>
	</div>
	<table><tr><th>Height</th><td>6'1"   (185cm)</td></tr></table>
	<!-- comment -->
	<noscript>enable js</noscript>
	<p>Country<br>Switzerland</p>
</body></html>`)

	text := VisibleText(doc.Find("body"))
	require.Equal(t, strings.Join([]string{
		"Roger Federer",
		"Age43",
		`Height 6'1" (185cm)`,
		"Country",
		"Switzerland",
	}, "\n"), text)
}

func TestGetAnchors(t *testing.T) {
	doc := parse(t, `<body>
		<a href="/en/players/roger-federer/f324/overview">  Roger
			Federer </a>
		<a>no href</a>
		<a href="https://www.atptour.com/en/players/rafael-nadal/n409/overview">Rafael Nadal</a>
	</body>`)
	base, err := url.Parse("https://www.atptour.com/en/players?search=roger")
	require.NoError(t, err)

	anchors := GetAnchors(context.Background(), doc.Find("a"), base)
	diff := cmp.Diff([]Anchor{
		{Name: "Roger Federer", Href: "https://www.atptour.com/en/players/roger-federer/f324/overview"},
		{Name: "Rafael Nadal", Href: "https://www.atptour.com/en/players/rafael-nadal/n409/overview"},
	}, anchors)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestLabelRows(t *testing.T) {
	doc := parse(t, `<body>
		<table class="player-profile-hero-table">
			<tr><th>Age</th><td> 43 </td></tr>
			<tr><th>Age</th><td>99</td></tr>
			<tr><td>Weight</td><td>187lbs (85kg)</td></tr>
			<tr><th>Empty</th><td></td></tr>
		</table>
		<dl><dt>Plays</dt><dd>Right-Handed</dd></dl>
	</body>`)

	rows := LabelRows(doc.Selection)
	require.Equal(t, map[string]string{
		"Age":    "43",
		"Weight": "187lbs (85kg)",
		"Plays":  "Right-Handed",
	}, rows)
}
