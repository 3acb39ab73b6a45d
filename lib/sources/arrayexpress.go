package sources

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"repoaccess-backend/lib/htmlutil"
	"repoaccess-backend/lib/resolve"

	"github.com/go-resty/resty/v2"
)

type ArrayExpress struct {
	Http *resty.Client
	// FtpUrl is the fire mirror root the E-MTAB trees live under.
	FtpUrl string
}

func NewArrayExpress(client *resty.Client) *ArrayExpress {
	return &ArrayExpress{
		Http:   client,
		FtpUrl: "https://ftp.ebi.ac.uk/biostudies/fire",
	}
}

var arrayExpressAccession = regexp.MustCompile(`^E-MTAB-(\d+)$`)

// filesUrl derives the mirror directory from the accession: trees are
// bucketed by the last three digits of the numeric part.
func (a *ArrayExpress) filesUrl(accession string) (string, bool) {
	groups := arrayExpressAccession.FindStringSubmatch(accession)
	if len(groups) < 2 {
		return "", false
	}
	numeric := groups[1]
	bucket := numeric
	if len(numeric) > 3 {
		bucket = numeric[len(numeric)-3:]
	}
	return fmt.Sprintf("%s/E-MTAB-/%s/%s/Files", a.FtpUrl, bucket, accession), true
}

func (a *ArrayExpress) ResolveAccess(ctx context.Context, accession string) (resolve.AccessState, string) {
	ctx, span := tracer.Start(ctx, "arrayexpress:ResolveAccess")
	defer span.End()

	url, ok := a.filesUrl(accession)
	if !ok {
		return resolve.AccessNotFound, ""
	}

	res, err := a.Http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		slog.WarnContext(ctx, "arrayexpress mirror unreachable", "accession", accession, "err", err)
		return resolve.AccessUnreachable, ""
	}
	if res.StatusCode() >= 400 {
		// the mirror only serves released studies, so a denied listing
		// means the study exists but is held back
		return resolve.AccessRestricted, res.Status()
	}
	return resolve.AccessPublic, ""
}

func (a *ArrayExpress) ResolveFiles(ctx context.Context, accession string) []resolve.FileEntry {
	ctx, span := tracer.Start(ctx, "arrayexpress:ResolveFiles")
	defer span.End()

	url, ok := a.filesUrl(accession)
	if !ok {
		return nil
	}
	body, err := getBody(ctx, a.Http, url)
	if err != nil {
		slog.WarnContext(ctx, "arrayexpress listing failed", "accession", accession, "err", err)
		return nil
	}
	doc, err := parseDocument(body)
	if err != nil {
		slog.WarnContext(ctx, "arrayexpress listing unparseable", "accession", accession, "err", err)
		return nil
	}

	// the Files directory is flat; no recursion needed
	files := []resolve.FileEntry{}
	for _, row := range htmlutil.IndexRows(doc) {
		name := row.Anchor.Name
		if name == "" || strings.Contains(name, "Parent Directory") || strings.HasSuffix(name, "/") {
			continue
		}
		files = append(files, resolve.FileEntry{
			Name:         name,
			Size:         row.Size,
			LastModified: row.LastModified,
			DownloadUrl:  url + "/" + name,
		})
	}
	return files
}
