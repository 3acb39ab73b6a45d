// Package htmlutil holds the small html helpers shared by the directory
// crawler and the scraping adapters.
package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func Text(node *html.Node) string {
	var buf bytes.Buffer
	collectText(node, &buf)
	return buf.String()
}

func collectText(node *html.Node, buf *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buf.WriteString(node.Data)
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, buf)
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// CleanText collapses inner whitespace and strips non-printable runes,
// which server-rendered index pages are full of.
func CleanText(s string) string {
	var out strings.Builder
	for _, c := range s {
		if unicode.IsPrint(c) {
			out.WriteRune(c)
		}
	}
	cleaned := strings.Trim(out.String(), " \t\n")
	return innerWhitespace.ReplaceAllString(cleaned, " ")
}

type Anchor struct {
	Name string
	Href string
}

// Anchors harvests every anchor in the selection, keeping document order.
func Anchors(sel *goquery.Selection) []Anchor {
	var anchors []Anchor
	for _, n := range sel.Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				break
			}
		}
		anchors = append(anchors, Anchor{
			Name: CleanText(Text(n)),
			Href: href,
		})
	}
	return anchors
}

// IndexRow is one row of an apache-style directory index table: the anchor
// plus the modified/size columns when the row carries them.
type IndexRow struct {
	Anchor       Anchor
	LastModified string
	Size         string
}

// IndexRows parses `table tr` rows of a directory index page. Rows without
// an anchor cell (header and separator rows) are skipped.
func IndexRows(doc *goquery.Document) []IndexRow {
	var rows []IndexRow
	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		cols := tr.Find("td")
		if cols.Length() < 2 {
			return
		}
		link := cols.Find("a").First()
		if link.Length() == 0 {
			return
		}
		row := IndexRow{
			Anchor: Anchor{
				Name: CleanText(link.Text()),
				Href: link.AttrOr("href", ""),
			},
		}
		if cols.Length() >= 3 {
			row.LastModified = CleanText(cols.Eq(2).Text())
		}
		if cols.Length() >= 4 {
			row.Size = CleanText(cols.Eq(3).Text())
		}
		rows = append(rows, row)
	})
	return rows
}
