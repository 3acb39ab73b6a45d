package sources

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"repoaccess-backend/lib/resolve"

	"github.com/go-resty/resty/v2"
)

type EMDB struct {
	Http   *resty.Client
	ApiUrl string
	FtpUrl string
}

func NewEMDB(client *resty.Client) *EMDB {
	return &EMDB{
		Http:   client,
		ApiUrl: "https://www.ebi.ac.uk/emdb/api",
		FtpUrl: "https://ftp.ebi.ac.uk/pub/databases/emdb/structures",
	}
}

func (e *EMDB) entry(ctx context.Context, accession string) (map[string]any, error) {
	var entry map[string]any
	url := fmt.Sprintf("%s/entry/%s", e.ApiUrl, accession)
	if err := getJson(ctx, e.Http, url, &entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (e *EMDB) ResolveAccess(ctx context.Context, accession string) (resolve.AccessState, string) {
	ctx, span := tracer.Start(ctx, "emdb:ResolveAccess")
	defer span.End()

	if _, err := e.entry(ctx, accession); err != nil {
		slog.WarnContext(ctx, "emdb entry lookup failed", "accession", accession, "err", err)
		return resolve.AccessUnreachable, ""
	}
	// the public api only serves released entries
	return resolve.AccessPublic, ""
}

func (e *EMDB) ResolveFiles(ctx context.Context, accession string) []resolve.FileEntry {
	ctx, span := tracer.Start(ctx, "emdb:ResolveFiles")
	defer span.End()

	entry, err := e.entry(ctx, accession)
	if err != nil {
		slog.WarnContext(ctx, "emdb entry lookup failed", "accession", accession, "err", err)
		return nil
	}

	updated := ""
	if admin, ok := entry["admin"].(map[string]any); ok {
		if dates, ok := admin["key_dates"].(map[string]any); ok {
			updated, _ = dates["update"].(string)
		}
	}

	// the entry document nests file references at arbitrary depth; any
	// object carrying both `file` and `size_kbytes` is one
	files := []resolve.FileEntry{}
	var walk func(key string, v any)
	walk = func(key string, v any) {
		switch val := v.(type) {
		case map[string]any:
			name, hasFile := val["file"].(string)
			size, hasSize := val["size_kbytes"].(float64)
			if hasFile && hasSize {
				base := "map"
				if key == "additional_map_list" {
					base = "other"
				}
				files = append(files, resolve.FileEntry{
					Name:         name,
					Path:         base + "/",
					Size:         humanSize(size * 1024),
					LastModified: humanTime(updated),
					DownloadUrl:  fmt.Sprintf("%s/%s/%s/%s", e.FtpUrl, accession, base, name),
				})
			}
			// deterministic order so repeated lookups agree
			keys := make([]string, 0, len(val))
			for k := range val {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				walk(k, val[k])
			}
		case []any:
			for _, item := range val {
				walk(key, item)
			}
		}
	}
	walk("", entry)
	return files
}
