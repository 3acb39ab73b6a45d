package sources

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"repoaccess-backend/lib/crawler"
	"repoaccess-backend/lib/resolve"

	"github.com/go-resty/resty/v2"
)

// geoMissingPhrase is the sentence the accession viewer renders for ids it
// doesn't know. The status here is free-text detection, so a phrasing change
// upstream breaks it; that fragility is accepted.
const geoMissingPhrase = "Could not find a public or private accession"

const geoPrivatePhrase = "is currently private"

type GEO struct {
	Http *resty.Client
	// QueryUrl serves the accession viewer, FtpUrl the series file trees.
	QueryUrl string
	FtpUrl   string
	// CrawlConcurrency bounds sibling-directory fan-out; 0 keeps the crawl
	// sequential.
	CrawlConcurrency int
}

func NewGEO(client *resty.Client) *GEO {
	return &GEO{
		Http:     client,
		QueryUrl: "https://www.ncbi.nlm.nih.gov/geo/query/acc.cgi",
		FtpUrl:   "https://ftp.ncbi.nlm.nih.gov/geo",
	}
}

// seriesBucket turns GSE12345 into GSE12nnn, the directory the mirror
// groups series under.
func seriesBucket(accession string) string {
	idx := len(accession)
	for idx > 0 && unicode.IsDigit(rune(accession[idx-1])) {
		idx--
	}
	prefix, digits := accession[:idx], accession[idx:]
	if len(digits) <= 3 {
		return prefix + "nnn"
	}
	return prefix + digits[:len(digits)-3] + "nnn"
}

func (g *GEO) ResolveAccess(ctx context.Context, accession string) (resolve.AccessState, string) {
	ctx, span := tracer.Start(ctx, "geo:ResolveAccess")
	defer span.End()

	body, err := getBody(ctx, g.Http, g.QueryUrl+"?acc="+accession)
	if err != nil {
		slog.WarnContext(ctx, "geo accession viewer failed", "accession", accession, "err", err)
		return resolve.AccessUnreachable, ""
	}

	page := string(body)
	if strings.Contains(page, geoMissingPhrase) {
		return resolve.AccessNotFound, geoMissingPhrase
	}
	if strings.Contains(page, geoPrivatePhrase) {
		return resolve.AccessRestricted, geoPrivatePhrase
	}
	return resolve.AccessPublic, ""
}

func (g *GEO) ResolveFiles(ctx context.Context, accession string) []resolve.FileEntry {
	ctx, span := tracer.Start(ctx, "geo:ResolveFiles")
	defer span.End()

	root := fmt.Sprintf("%s/series/%s/%s/", g.FtpUrl, seriesBucket(accession), accession)
	c := crawler.Crawler{
		Client:      g.Http,
		Concurrency: g.CrawlConcurrency,
	}
	files, err := c.Crawl(ctx, root)
	if err != nil {
		slog.WarnContext(ctx, "geo tree crawl failed", "accession", accession, "root", root, "err", err)
		return nil
	}
	return files
}
