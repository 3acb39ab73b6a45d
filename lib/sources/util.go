package sources

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"repoaccess-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// humanSize renders a byte count the way the ftp mirrors do: one decimal,
// single-letter unit.
func humanSize(size float64) string {
	for _, unit := range []string{"B", "K", "M", "G", "T"} {
		if size < 1024 {
			return fmt.Sprintf("%.1f%s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1fP", size)
}

// humanTime renders an upstream ISO timestamp as `2006-01-02 15:04`, or
// "unknown" when it doesn't parse.
func humanTime(iso string) string {
	if iso == "" {
		return "unknown"
	}
	iso = strings.Replace(iso, "Z", "+00:00", 1)
	for _, layout := range []string{
		"2006-01-02T15:04:05.999999999-07:00",
		"2006-01-02T15:04:05-07:00",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format("2006-01-02 15:04")
		}
	}
	return "unknown"
}

// scriptBodies collects the raw text of every script tag in document order.
func scriptBodies(doc *goquery.Document) []string {
	var bodies []string
	for _, node := range doc.Find("script").Nodes {
		bodies = append(bodies, htmlutil.Text(node))
	}
	return bodies
}

func parseDocument(body []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewBuffer(body))
}
