package sources

import (
	"context"
	"fmt"
	"log/slog"

	"repoaccess-backend/lib/resolve"

	"github.com/go-resty/resty/v2"
)

var metaboLightsStatuses = resolve.StatusTable{
	"PUBLIC":      resolve.AccessPublic,
	"INCURATION":  resolve.AccessPending,
	"INREVIEW":    resolve.AccessPending,
	"PROVISIONAL": resolve.AccessPending,
	"DORMANT":     resolve.AccessRestricted,
}

type MetaboLights struct {
	Http   *resty.Client
	ApiUrl string
}

func NewMetaboLights(client *resty.Client) *MetaboLights {
	return &MetaboLights{
		Http:   client,
		ApiUrl: "https://www.ebi.ac.uk/metabolights/ws",
	}
}

func (m *MetaboLights) ResolveAccess(ctx context.Context, accession string) (resolve.AccessState, string) {
	ctx, span := tracer.Start(ctx, "metabolights:ResolveAccess")
	defer span.End()

	var study struct {
		Content struct {
			StudyStatus string `json:"studyStatus"`
		} `json:"content"`
	}
	url := fmt.Sprintf("%s/studies/%s", m.ApiUrl, accession)
	if err := getJson(ctx, m.Http, url, &study); err != nil {
		slog.WarnContext(ctx, "metabolights study lookup failed", "accession", accession, "err", err)
		return resolve.AccessUnreachable, ""
	}
	return metaboLightsStatuses.Normalize(study.Content.StudyStatus)
}

func (m *MetaboLights) ResolveFiles(ctx context.Context, accession string) []resolve.FileEntry {
	ctx, span := tracer.Start(ctx, "metabolights:ResolveFiles")
	defer span.End()

	var listing struct {
		Study []struct {
			File      string `json:"file"`
			Directory bool   `json:"directory"`
		} `json:"study"`
	}
	url := fmt.Sprintf("%s/studies/%s/files?include_raw_data=true", m.ApiUrl, accession)
	if err := getJson(ctx, m.Http, url, &listing); err != nil {
		slog.WarnContext(ctx, "metabolights file listing failed", "accession", accession, "err", err)
		return nil
	}

	files := []resolve.FileEntry{}
	for _, f := range listing.Study {
		if f.Directory {
			continue
		}
		files = append(files, resolve.FileEntry{Name: f.File})
	}
	return files
}
