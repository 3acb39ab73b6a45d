package sources

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"repoaccess-backend/lib/htmlutil"
	"repoaccess-backend/lib/resolve"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"
)

var osfAccess = resolve.StatusTable{
	"Public":  resolve.AccessPublic,
	"Private": resolve.AccessRestricted,
}

type OSF struct {
	Http    *resty.Client
	BaseUrl string
	ApiUrl  string
	// FolderConcurrency bounds the per-folder listing fan-out.
	FolderConcurrency int
}

func NewOSF(client *resty.Client) *OSF {
	return &OSF{
		Http:              client,
		BaseUrl:           "https://osf.io",
		ApiUrl:            "https://api.osf.io/v2",
		FolderConcurrency: 10,
	}
}

// ResolveAccess scrapes the project landing page: the access level is only
// rendered as the label of a disabled button.
func (o *OSF) ResolveAccess(ctx context.Context, accession string) (resolve.AccessState, string) {
	ctx, span := tracer.Start(ctx, "osf:ResolveAccess")
	defer span.End()

	body, err := getBody(ctx, o.Http, fmt.Sprintf("%s/%s", o.BaseUrl, accession))
	if err != nil {
		slog.WarnContext(ctx, "osf landing page failed", "accession", accession, "err", err)
		return resolve.AccessUnreachable, ""
	}
	doc, err := parseDocument(body)
	if err != nil {
		slog.WarnContext(ctx, "osf landing page unparseable", "accession", accession, "err", err)
		return resolve.AccessUnreachable, ""
	}

	label := htmlutil.CleanText(doc.Find("button.btn.btn-default.disabled").First().Text())
	return osfAccess.Normalize(label)
}

type osfItem struct {
	Id         string `json:"id"`
	Attributes struct {
		Kind             string  `json:"kind"`
		MaterializedPath string  `json:"materialized_path"`
		Size             float64 `json:"size"`
		DateModified     string  `json:"date_modified"`
	} `json:"attributes"`
}

type osfListing struct {
	Data []osfItem `json:"data"`
}

func (o *OSF) listing(ctx context.Context, accession, folder string) (osfListing, error) {
	url := fmt.Sprintf("%s/nodes/%s/files/osfstorage/", o.ApiUrl, accession)
	if folder != "" {
		url += folder + "/"
	}
	var out osfListing
	err := getJson(ctx, o.Http, url, &out)
	return out, err
}

func (o *OSF) toEntry(item osfItem) resolve.FileEntry {
	return resolve.FileEntry{
		Name:         item.Attributes.MaterializedPath,
		Size:         humanSize(item.Attributes.Size),
		LastModified: humanTime(item.Attributes.DateModified),
		DownloadUrl:  fmt.Sprintf("%s/download/%s", o.BaseUrl, item.Id),
	}
}

func (o *OSF) ResolveFiles(ctx context.Context, accession string) []resolve.FileEntry {
	ctx, span := tracer.Start(ctx, "osf:ResolveFiles")
	defer span.End()

	root, err := o.listing(ctx, accession, "")
	if err != nil {
		slog.WarnContext(ctx, "osf storage listing failed", "accession", accession, "err", err)
		return nil
	}

	files := []resolve.FileEntry{}
	var folders []string
	for _, item := range root.Data {
		switch item.Attributes.Kind {
		case "file":
			files = append(files, o.toEntry(item))
		case "folder":
			folders = append(folders, item.Id)
		}
	}

	// folder listings are independent, fan them out
	results := make([][]resolve.FileEntry, len(folders))
	var mu sync.Mutex
	group, ctx := errgroup.WithContext(ctx)
	limit := o.FolderConcurrency
	if limit < 1 {
		limit = 1
	}
	group.SetLimit(limit)
	for i, folder := range folders {
		i, folder := i, folder
		group.Go(func() error {
			sub, err := o.listing(ctx, accession, folder)
			if err != nil {
				// this folder contributes nothing, the rest still count
				slog.WarnContext(ctx, "osf folder listing failed", "folder", folder, "err", err)
				return nil
			}
			var entries []resolve.FileEntry
			for _, item := range sub.Data {
				if item.Attributes.Kind == "file" {
					entries = append(entries, o.toEntry(item))
				}
			}
			mu.Lock()
			results[i] = entries
			mu.Unlock()
			return nil
		})
	}
	// the closures absorb their own failures, Wait only joins the goroutines
	_ = group.Wait()

	for _, sub := range results {
		files = append(files, sub...)
	}
	return files
}
