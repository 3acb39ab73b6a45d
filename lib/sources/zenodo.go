package sources

import (
	"context"
	"fmt"
	"log/slog"

	"repoaccess-backend/lib/resolve"

	"github.com/go-resty/resty/v2"
)

type Zenodo struct {
	Http   *resty.Client
	ApiUrl string
}

func NewZenodo(client *resty.Client) *Zenodo {
	return &Zenodo{
		Http:   client,
		ApiUrl: "https://zenodo.org/api",
	}
}

type zenodoFiles struct {
	Enabled bool `json:"enabled"`
	Entries []struct {
		Key     string  `json:"key"`
		Size    float64 `json:"size"`
		Updated string  `json:"updated"`
		Links   struct {
			Content string `json:"content"`
		} `json:"links"`
	} `json:"entries"`
}

func (z *Zenodo) record(ctx context.Context, accession string) (zenodoFiles, error) {
	var out zenodoFiles
	url := fmt.Sprintf("%s/records/%s/files", z.ApiUrl, accession)
	err := getJson(ctx, z.Http, url, &out)
	return out, err
}

func (z *Zenodo) ResolveAccess(ctx context.Context, accession string) (resolve.AccessState, string) {
	ctx, span := tracer.Start(ctx, "zenodo:ResolveAccess")
	defer span.End()

	record, err := z.record(ctx, accession)
	if err != nil {
		slog.WarnContext(ctx, "zenodo record lookup failed", "accession", accession, "err", err)
		return resolve.AccessUnreachable, ""
	}
	if !record.Enabled {
		return resolve.AccessRestricted, ""
	}
	return resolve.AccessPublic, ""
}

func (z *Zenodo) ResolveFiles(ctx context.Context, accession string) []resolve.FileEntry {
	ctx, span := tracer.Start(ctx, "zenodo:ResolveFiles")
	defer span.End()

	record, err := z.record(ctx, accession)
	if err != nil {
		slog.WarnContext(ctx, "zenodo record lookup failed", "accession", accession, "err", err)
		return nil
	}

	files := []resolve.FileEntry{}
	for _, entry := range record.Entries {
		files = append(files, resolve.FileEntry{
			Name:         entry.Key,
			Size:         humanSize(entry.Size),
			LastModified: humanTime(entry.Updated),
			DownloadUrl:  entry.Links.Content,
		})
	}
	return files
}
