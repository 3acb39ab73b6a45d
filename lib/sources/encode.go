package sources

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"repoaccess-backend/lib/resolve"

	"github.com/go-resty/resty/v2"
)

var encodeStatuses = resolve.StatusTable{
	"released":      resolve.AccessPublic,
	"archived":      resolve.AccessPublic,
	"in progress":   resolve.AccessPending,
	"uploading":     resolve.AccessPending,
	"upload failed": resolve.AccessPending,
	"revoked":       resolve.AccessWithdrawn,
	"deleted":       resolve.AccessWithdrawn,
	"replaced":      resolve.AccessWithdrawn,
}

type ENCODE struct {
	Http    *resty.Client
	BaseUrl string
}

func NewENCODE(client *resty.Client) *ENCODE {
	return &ENCODE{
		Http:    client,
		BaseUrl: "https://www.encodeproject.org",
	}
}

type encodeFile struct {
	Status      string `json:"status"`
	Href        string `json:"href"`
	FileFormat  string `json:"file_format"`
	FileSize    int64  `json:"file_size"`
	DateCreated string `json:"date_created"`
}

var encodeDownloadRegex = regexp.MustCompile(`.*/@@download/(.*)`)

func (e *ENCODE) file(ctx context.Context, accession string) (encodeFile, error) {
	var file encodeFile
	url := fmt.Sprintf("%s/files/%s/?format=json", e.BaseUrl, accession)
	err := getJson(ctx, e.Http, url, &file)
	return file, err
}

func (e *ENCODE) ResolveAccess(ctx context.Context, accession string) (resolve.AccessState, string) {
	ctx, span := tracer.Start(ctx, "encode:ResolveAccess")
	defer span.End()

	file, err := e.file(ctx, accession)
	if err != nil {
		slog.WarnContext(ctx, "encode file lookup failed", "accession", accession, "err", err)
		return resolve.AccessUnreachable, ""
	}
	return encodeStatuses.Normalize(file.Status)
}

func (e *ENCODE) ResolveFiles(ctx context.Context, accession string) []resolve.FileEntry {
	ctx, span := tracer.Start(ctx, "encode:ResolveFiles")
	defer span.End()

	file, err := e.file(ctx, accession)
	if err != nil {
		slog.WarnContext(ctx, "encode file lookup failed", "accession", accession, "err", err)
		return nil
	}

	// file accessions are single files, not collections
	name := fmt.Sprintf("%s.%s", accession, file.FileFormat)
	if groups := encodeDownloadRegex.FindStringSubmatch(file.Href); len(groups) >= 2 {
		name = groups[1]
	}

	size := "unknown"
	if file.FileSize > 0 {
		size = humanSize(float64(file.FileSize))
	}

	return []resolve.FileEntry{{
		Name:         name,
		Size:         size,
		LastModified: humanTime(file.DateCreated),
		DownloadUrl:  fmt.Sprintf("%s/files/%s/@@download/%s", e.BaseUrl, accession, name),
	}}
}
