// Package crawler enumerates files under a directory tree exposed as nested
// HTML index pages, the way EBI and NCBI FTP mirrors render them.
package crawler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"repoaccess-backend/lib/htmlutil"
	"repoaccess-backend/lib/resolve"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("lib/crawler")

// ErrDepthExceeded reports a tree deeper than MaxDepth, which on a real
// mirror means a self-referential or misconfigured listing.
var ErrDepthExceeded = fmt.Errorf("crawl depth exceeded")

const DefaultMaxDepth = 20

// DefaultExclude drops the parent-directory link and the boilerplate of
// apache-style index pages. Matching is by substring.
var DefaultExclude = []string{
	"Parent Directory",
	"Last modified",
	"Description",
}

type Crawler struct {
	Client *resty.Client
	// Exclude overrides DefaultExclude when non-nil.
	Exclude []string
	// MaxDepth caps recursion; 0 means DefaultMaxDepth.
	MaxDepth int
	// Concurrency bounds how many sibling directories are walked at once;
	// values below 2 keep the walk fully sequential.
	Concurrency int
}

func (c Crawler) maxDepth() int {
	if c.MaxDepth > 0 {
		return c.MaxDepth
	}
	return DefaultMaxDepth
}

func (c Crawler) excluded(name string) bool {
	exclude := c.Exclude
	if exclude == nil {
		exclude = DefaultExclude
	}
	for _, e := range exclude {
		if name == e || strings.Contains(name, e) {
			return true
		}
	}
	return false
}

// Crawl walks the whole tree under root. A fetch failure at the root is an
// error; a fetch failure further down contributes zero files for that
// subtree and the walk continues. ErrDepthExceeded aborts the walk.
func (c Crawler) Crawl(ctx context.Context, root string) ([]resolve.FileEntry, error) {
	ctx, span := tracer.Start(ctx, "Crawl")
	defer span.End()

	if !strings.HasSuffix(root, "/") {
		root += "/"
	}
	files, err := c.walk(ctx, root, "", 0)
	if err != nil {
		return nil, err
	}
	if files == nil {
		// a reachable but file-less tree is an empty listing, not a failure
		files = []resolve.FileEntry{}
	}
	return files, nil
}

func (c Crawler) fetchIndex(ctx context.Context, url string) ([]htmlutil.IndexRow, error) {
	res, err := c.Client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() >= 400 {
		return nil, fmt.Errorf("listing page returned %s", res.Status())
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, err
	}
	return htmlutil.IndexRows(doc), nil
}

func (c Crawler) walk(ctx context.Context, root, prefix string, depth int) ([]resolve.FileEntry, error) {
	if depth > c.maxDepth() {
		return nil, fmt.Errorf("%w at %q", ErrDepthExceeded, prefix)
	}

	rows, err := c.fetchIndex(ctx, root+prefix)
	if err != nil {
		if depth == 0 {
			return nil, err
		}
		slog.WarnContext(ctx, "skipping unreadable subtree", "prefix", prefix, "err", err)
		return nil, nil
	}

	var files []resolve.FileEntry
	var subdirs []string
	for _, row := range rows {
		name := row.Anchor.Name
		if name == "" || c.excluded(name) {
			continue
		}
		if strings.HasSuffix(name, "/") {
			subdirs = append(subdirs, name)
			continue
		}
		files = append(files, resolve.FileEntry{
			Name:         name,
			Path:         prefix,
			Size:         row.Size,
			LastModified: row.LastModified,
			DownloadUrl:  root + prefix + name,
		})
	}

	if c.Concurrency > 1 && len(subdirs) > 1 {
		sub, err := c.walkConcurrent(ctx, root, prefix, depth, subdirs)
		if err != nil {
			return nil, err
		}
		return append(files, sub...), nil
	}

	for _, dir := range subdirs {
		sub, err := c.walk(ctx, root, prefix+dir, depth+1)
		if err != nil {
			return nil, err
		}
		files = append(files, sub...)
	}
	return files, nil
}

// walkConcurrent crawls sibling directories in parallel. Results land in
// per-sibling slots so discovery order stays deterministic.
func (c Crawler) walkConcurrent(ctx context.Context, root, prefix string, depth int, subdirs []string) ([]resolve.FileEntry, error) {
	results := make([][]resolve.FileEntry, len(subdirs))
	var mu sync.Mutex

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(c.Concurrency)
	for i, dir := range subdirs {
		i, dir := i, dir
		group.Go(func() error {
			sub, err := c.walk(ctx, root, prefix+dir, depth+1)
			if err != nil {
				return err
			}
			mu.Lock()
			results[i] = sub
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var files []resolve.FileEntry
	for _, sub := range results {
		files = append(files, sub...)
	}
	return files, nil
}
