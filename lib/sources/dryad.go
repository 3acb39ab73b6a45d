package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"repoaccess-backend/lib/resolve"

	"github.com/go-resty/resty/v2"
)

var dryadStatuses = resolve.StatusTable{
	"Published":               resolve.AccessPublic,
	"Curation":                resolve.AccessPending,
	"Processing":              resolve.AccessPending,
	"Private for peer review": resolve.AccessRestricted,
	"Withdrawn":               resolve.AccessWithdrawn,
}

// Dryad accessions are DOIs, url-escaped into the api path.
type Dryad struct {
	Http   *resty.Client
	ApiUrl string
}

func NewDryad(client *resty.Client) *Dryad {
	return &Dryad{
		Http:   client,
		ApiUrl: "https://datadryad.org/api/v2",
	}
}

func (d *Dryad) datasetUrl(accession string) string {
	return fmt.Sprintf("%s/datasets/%s", d.ApiUrl, url.PathEscape("doi:"+accession))
}

func (d *Dryad) ResolveAccess(ctx context.Context, accession string) (resolve.AccessState, string) {
	ctx, span := tracer.Start(ctx, "dryad:ResolveAccess")
	defer span.End()

	var dataset struct {
		CurationStatus string `json:"curationStatus"`
	}
	if err := getJson(ctx, d.Http, d.datasetUrl(accession), &dataset); err != nil {
		slog.WarnContext(ctx, "dryad dataset lookup failed", "accession", accession, "err", err)
		return resolve.AccessUnreachable, ""
	}
	return dryadStatuses.Normalize(dataset.CurationStatus)
}

func (d *Dryad) ResolveFiles(ctx context.Context, accession string) []resolve.FileEntry {
	ctx, span := tracer.Start(ctx, "dryad:ResolveFiles")
	defer span.End()

	var listing struct {
		Embedded struct {
			Files []struct {
				Path string  `json:"path"`
				Size float64 `json:"size"`
			} `json:"stash:files"`
		} `json:"_embedded"`
	}
	listingUrl := d.datasetUrl(accession) + "/files"
	if err := getJson(ctx, d.Http, listingUrl, &listing); err != nil {
		slog.WarnContext(ctx, "dryad file listing failed", "accession", accession, "err", err)
		return nil
	}

	files := []resolve.FileEntry{}
	for _, f := range listing.Embedded.Files {
		files = append(files, resolve.FileEntry{
			Name: f.Path,
			Size: humanSize(f.Size),
		})
	}
	return files
}
