package sources

import (
	"context"
	"fmt"
	"log/slog"

	"repoaccess-backend/lib/resolve"

	"github.com/go-resty/resty/v2"
)

type Figshare struct {
	Http   *resty.Client
	ApiUrl string
}

func NewFigshare(client *resty.Client) *Figshare {
	return &Figshare{
		Http:   client,
		ApiUrl: "https://api.figshare.com/v2",
	}
}

type figshareArticle struct {
	IsPublic bool `json:"is_public"`
	Files    []struct {
		Name        string  `json:"name"`
		Size        float64 `json:"size"`
		DownloadUrl string  `json:"download_url"`
	} `json:"files"`
}

func (f *Figshare) article(ctx context.Context, accession string) (figshareArticle, error) {
	var out figshareArticle
	url := fmt.Sprintf("%s/articles/%s", f.ApiUrl, accession)
	err := getJson(ctx, f.Http, url, &out)
	return out, err
}

func (f *Figshare) ResolveAccess(ctx context.Context, accession string) (resolve.AccessState, string) {
	ctx, span := tracer.Start(ctx, "figshare:ResolveAccess")
	defer span.End()

	article, err := f.article(ctx, accession)
	if err != nil {
		slog.WarnContext(ctx, "figshare article lookup failed", "accession", accession, "err", err)
		return resolve.AccessUnreachable, ""
	}
	if !article.IsPublic {
		return resolve.AccessRestricted, ""
	}
	return resolve.AccessPublic, ""
}

func (f *Figshare) ResolveFiles(ctx context.Context, accession string) []resolve.FileEntry {
	ctx, span := tracer.Start(ctx, "figshare:ResolveFiles")
	defer span.End()

	article, err := f.article(ctx, accession)
	if err != nil {
		slog.WarnContext(ctx, "figshare article lookup failed", "accession", accession, "err", err)
		return nil
	}

	files := []resolve.FileEntry{}
	for _, af := range article.Files {
		files = append(files, resolve.FileEntry{
			Name:        af.Name,
			Size:        humanSize(af.Size),
			DownloadUrl: af.DownloadUrl,
		})
	}
	return files
}
