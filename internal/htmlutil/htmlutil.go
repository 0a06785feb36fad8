package htmlutil

import (
	"bytes"
	"context"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var tracer = otel.Tracer("tennisscout.internal.htmlutil")

// GetText returns the concatenated contents of every text node under node.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var hiddenElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Head:     true,
	atom.Svg:      true,
}

var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Br: true, atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Fieldset: true, atom.Figcaption: true, atom.Figure: true, atom.Footer: true,
	atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Header: true, atom.Hr: true, atom.Li: true,
	atom.Main: true, atom.Nav: true, atom.Ol: true, atom.P: true, atom.Section: true,
	atom.Table: true, atom.Tr: true, atom.Ul: true,
}

var innerWhitespace = regexp.MustCompile(`[ \t\f\v\p{Zs}]+`)

// VisibleText flattens the nodes of sel into the text a reader would see,
// block elements end a line and hidden elements are skipped. Runs of
// whitespace inside a line collapse to a single space and empty lines
// are dropped.
func VisibleText(sel *goquery.Selection) string {
	var buffer strings.Builder
	for _, n := range sel.Nodes {
		visibleTextRecursive(n, &buffer)
	}

	lines := strings.Split(buffer.String(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = innerWhitespace.ReplaceAllString(line, " ")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func visibleTextRecursive(node *html.Node, buffer *strings.Builder) {
	switch node.Type {
	case html.TextNode:
		buffer.WriteString(strings.ReplaceAll(node.Data, "\n", " "))
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		if hiddenElements[node.DataAtom] {
			return
		}
	}

	block := node.Type == html.ElementNode && blockElements[node.DataAtom]
	cell := node.Type == html.ElementNode && (node.DataAtom == atom.Td || node.DataAtom == atom.Th)
	if block {
		buffer.WriteByte('\n')
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		visibleTextRecursive(child, buffer)
	}
	if block {
		buffer.WriteByte('\n')
	}
	if cell {
		buffer.WriteByte(' ')
	}
}

// Anchor is a link as a reader sees it, Href is absolute when the anchor
// was collected with a base url.
type Anchor struct {
	Name string
	Href string
}

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText removes non-printable runes and collapses whitespace.
func CleanText(s string) string {
	s = removeNonPrintable(strings.ReplaceAll(s, "\n", " "))
	s = innerWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// GetAnchors collects the anchors in sel, hrefs are resolved against base
// when it is not nil. Anchors without an href or with an unparsable one
// are skipped.
func GetAnchors(ctx context.Context, sel *goquery.Selection, base *url.URL) []Anchor {
	_, span := tracer.Start(ctx, "GetAnchors")
	defer span.End()

	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = strings.TrimSpace(a.Val)
				break
			}
		}
		if href == "" {
			continue
		}

		link, err := url.Parse(href)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "got error while parsing url")
			continue
		}
		if base != nil {
			link = base.ResolveReference(link)
		}

		name := CleanText(GetText(n))
		linkStr := link.String()
		anchors = append(anchors, Anchor{
			Name: name,
			Href: linkStr,
		})
		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("name", name),
			attribute.String("url", linkStr),
		))
	}

	return anchors
}

// LabelRows reads two-column label/value structures (table rows with a th
// and td, or dt/dd pairs) under sel into a map keyed by the label text.
// The first occurrence of a label wins.
func LabelRows(sel *goquery.Selection) map[string]string {
	out := map[string]string{}
	put := func(label, value string) {
		label = CleanText(label)
		value = CleanText(value)
		if label == "" || value == "" {
			return
		}
		if _, exists := out[label]; exists {
			return
		}
		out[label] = value
	}

	sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		th := tr.Find("th").First()
		td := tr.Find("td").First()
		if th.Length() > 0 && td.Length() > 0 {
			put(th.Text(), td.Text())
			return
		}
		cells := tr.Find("td")
		if cells.Length() == 2 {
			put(cells.Eq(0).Text(), cells.Eq(1).Text())
		}
	})
	sel.Find("dt").Each(func(_ int, dt *goquery.Selection) {
		dd := dt.NextFiltered("dd")
		if dd.Length() > 0 {
			put(dt.Text(), dd.Text())
		}
	})
	return out
}
