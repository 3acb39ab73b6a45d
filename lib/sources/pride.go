package sources

import (
	"context"
	"fmt"
	"log/slog"

	"repoaccess-backend/lib/resolve"

	"github.com/go-resty/resty/v2"
)

var prideStatuses = resolve.StatusTable{
	"PUBLIC":       resolve.AccessPublic,
	"PRIVATE":      resolve.AccessRestricted,
	"SUBMITTED":    resolve.AccessPending,
	"UNDER_REVIEW": resolve.AccessPending,
}

type PRIDE struct {
	Http   *resty.Client
	ApiUrl string
}

func NewPRIDE(client *resty.Client) *PRIDE {
	return &PRIDE{
		Http:   client,
		ApiUrl: "https://www.ebi.ac.uk/pride/ws/archive/v2",
	}
}

func (p *PRIDE) ResolveAccess(ctx context.Context, accession string) (resolve.AccessState, string) {
	ctx, span := tracer.Start(ctx, "pride:ResolveAccess")
	defer span.End()

	var project struct {
		Status string `json:"status"`
	}
	url := fmt.Sprintf("%s/projects/%s", p.ApiUrl, accession)
	if err := getJson(ctx, p.Http, url, &project); err != nil {
		slog.WarnContext(ctx, "pride project lookup failed", "accession", accession, "err", err)
		return resolve.AccessUnreachable, ""
	}
	return prideStatuses.Normalize(project.Status)
}

func (p *PRIDE) ResolveFiles(ctx context.Context, accession string) []resolve.FileEntry {
	ctx, span := tracer.Start(ctx, "pride:ResolveFiles")
	defer span.End()

	var projectFiles []struct {
		FileName      string  `json:"fileName"`
		FileSizeBytes float64 `json:"fileSizeBytes"`
		PublicFileLocations []struct {
			Value string `json:"value"`
		} `json:"publicFileLocations"`
	}
	url := fmt.Sprintf("%s/projects/%s/files", p.ApiUrl, accession)
	if err := getJson(ctx, p.Http, url, &projectFiles); err != nil {
		slog.WarnContext(ctx, "pride file listing failed", "accession", accession, "err", err)
		return nil
	}

	files := []resolve.FileEntry{}
	for _, f := range projectFiles {
		entry := resolve.FileEntry{
			Name: f.FileName,
			Size: humanSize(f.FileSizeBytes),
		}
		if len(f.PublicFileLocations) > 0 {
			entry.DownloadUrl = f.PublicFileLocations[0].Value
		}
		files = append(files, entry)
	}
	return files
}
