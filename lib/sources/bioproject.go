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

// bioprojectMissingPhrase is rendered by the search page when nothing
// matches the term. Free-text detection, same fragility caveat as GEO.
const bioprojectMissingPhrase = "No items found"

type BioProject struct {
	Http    *resty.Client
	BaseUrl string
}

func NewBioProject(client *resty.Client) *BioProject {
	return &BioProject{
		Http:    client,
		BaseUrl: "https://www.ncbi.nlm.nih.gov",
	}
}

var trailingDigitsRegex = regexp.MustCompile(`(\d+)$`)

func (b *BioProject) searchPage(ctx context.Context, accession string) (string, error) {
	body, err := getBody(ctx, b.Http, fmt.Sprintf("%s/bioproject/?term=%s", b.BaseUrl, accession))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (b *BioProject) ResolveAccess(ctx context.Context, accession string) (resolve.AccessState, string) {
	ctx, span := tracer.Start(ctx, "bioproject:ResolveAccess")
	defer span.End()

	page, err := b.searchPage(ctx, accession)
	if err != nil {
		slog.WarnContext(ctx, "bioproject search failed", "accession", accession, "err", err)
		return resolve.AccessUnreachable, ""
	}
	if strings.Contains(page, bioprojectMissingPhrase) {
		return resolve.AccessNotFound, bioprojectMissingPhrase
	}
	return resolve.AccessPublic, ""
}

func (b *BioProject) ResolveFiles(ctx context.Context, accession string) []resolve.FileEntry {
	ctx, span := tracer.Start(ctx, "bioproject:ResolveFiles")
	defer span.End()

	// stage 1: the search page must resolve before the id page is fetched
	if _, err := b.searchPage(ctx, accession); err != nil {
		slog.WarnContext(ctx, "bioproject search failed", "accession", accession, "err", err)
		return nil
	}

	// stage 2 is keyed by the numeric internal id, which is the trailing
	// digit run of the accession
	groups := trailingDigitsRegex.FindStringSubmatch(accession)
	if len(groups) < 2 {
		slog.WarnContext(ctx, "bioproject accession has no trailing id", "accession", accession)
		return nil
	}
	uid := groups[1]

	body, err := getBody(ctx, b.Http, fmt.Sprintf("%s/bioproject/%s", b.BaseUrl, uid))
	if err != nil {
		slog.WarnContext(ctx, "bioproject id page failed", "accession", accession, "uid", uid, "err", err)
		return nil
	}
	doc, err := parseDocument(body)
	if err != nil {
		slog.WarnContext(ctx, "bioproject id page unparseable", "accession", accession, "err", err)
		return nil
	}

	files := []resolve.FileEntry{}
	for _, anchor := range htmlutil.Anchors(doc.Find("table a")) {
		if anchor.Name == "" {
			continue
		}
		files = append(files, resolve.FileEntry{
			Name:        anchor.Name,
			DownloadUrl: anchor.Href,
		})
	}
	return files
}
