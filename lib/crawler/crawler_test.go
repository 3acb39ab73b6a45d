package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"repoaccess-backend/lib/resolve"

	"github.com/go-resty/resty/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// indexPage renders an apache-style directory listing.
func indexPage(entries ...[3]string) string {
	var b strings.Builder
	b.WriteString("<html><body><table>")
	b.WriteString("<tr><th>Icon</th><th>Name</th><th>Last modified</th><th>Size</th></tr>")
	b.WriteString(`<tr><td></td><td><a href="../">Parent Directory</a></td><td></td><td>-</td></tr>`)
	for _, e := range entries {
		fmt.Fprintf(&b,
			`<tr><td></td><td><a href="%s">%s</a></td><td>%s</td><td>%s</td></tr>`,
			e[0], e[0], e[1], e[2],
		)
	}
	b.WriteString("</table></body></html>")
	return b.String()
}

func serveTree(t *testing.T, pages map[string]string) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, page)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCrawlDepthThreeTree(t *testing.T) {
	server := serveTree(t, map[string]string{
		"/": indexPage(
			[3]string{"a.txt", "2024-01-01 10:00", "12K"},
			[3]string{"sub1/", "2024-01-01 10:00", "-"},
			[3]string{"sub2/", "2024-01-01 10:00", "-"},
		),
		"/sub1/": indexPage(
			[3]string{"b.txt", "2024-01-02 11:00", "3.4M"},
			[3]string{"deep/", "2024-01-02 11:00", "-"},
		),
		"/sub1/deep/": indexPage(
			[3]string{"c.txt", "2024-01-03 12:00", "700"},
		),
		"/sub2/": indexPage(
			[3]string{"d.txt", "2024-01-04 13:00", "88"},
		),
	})

	c := Crawler{Client: resty.New()}
	files, err := c.Crawl(context.Background(), server.URL)
	require.NoError(t, err)

	expected := []resolve.FileEntry{
		{Name: "a.txt", Path: "", Size: "12K", LastModified: "2024-01-01 10:00", DownloadUrl: server.URL + "/a.txt"},
		{Name: "b.txt", Path: "sub1/", Size: "3.4M", LastModified: "2024-01-02 11:00", DownloadUrl: server.URL + "/sub1/b.txt"},
		{Name: "c.txt", Path: "sub1/deep/", Size: "700", LastModified: "2024-01-03 12:00", DownloadUrl: server.URL + "/sub1/deep/c.txt"},
		{Name: "d.txt", Path: "sub2/", Size: "88", LastModified: "2024-01-04 13:00", DownloadUrl: server.URL + "/sub2/d.txt"},
	}
	diff := cmp.Diff(expected, files)
	if diff != "" {
		t.Fatal(diff)
	}

	for _, f := range files {
		require.NotContains(t, f.Name, "Parent Directory")
	}
}

func TestCrawlConcurrentSiblingsKeepOrder(t *testing.T) {
	server := serveTree(t, map[string]string{
		"/": indexPage(
			[3]string{"sub1/", "", "-"},
			[3]string{"sub2/", "", "-"},
			[3]string{"sub3/", "", "-"},
		),
		"/sub1/": indexPage([3]string{"a.txt", "", "1"}),
		"/sub2/": indexPage([3]string{"b.txt", "", "2"}),
		"/sub3/": indexPage([3]string{"c.txt", "", "3"}),
	})

	c := Crawler{Client: resty.New(), Concurrency: 3}
	files, err := c.Crawl(context.Background(), server.URL)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	require.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, names)
}

func TestCrawlSelfReferentialTreeTripsDepthCap(t *testing.T) {
	// every level lists the same subdirectory again
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, indexPage([3]string{"loop/", "", "-"}))
	}))
	defer server.Close()

	c := Crawler{Client: resty.New(), MaxDepth: 3}
	_, err := c.Crawl(context.Background(), server.URL)
	require.ErrorIs(t, err, ErrDepthExceeded)
}

func TestCrawlRootFailureIsAnError(t *testing.T) {
	server := serveTree(t, map[string]string{})

	c := Crawler{Client: resty.New()}
	_, err := c.Crawl(context.Background(), server.URL)
	require.Error(t, err)
}

func TestCrawlSubtreeFailureContributesNothing(t *testing.T) {
	server := serveTree(t, map[string]string{
		"/": indexPage(
			[3]string{"ok.txt", "", "5"},
			[3]string{"broken/", "", "-"},
		),
		// no page registered for /broken/
	})

	c := Crawler{Client: resty.New()}
	files, err := c.Crawl(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "ok.txt", files[0].Name)
}
