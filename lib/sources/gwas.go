package sources

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"repoaccess-backend/lib/crawler"
	"repoaccess-backend/lib/resolve"

	"github.com/go-resty/resty/v2"
)

type GWAS struct {
	Http   *resty.Client
	ApiUrl string
	FtpUrl string
	// CrawlConcurrency bounds sibling-directory fan-out; 0 keeps the crawl
	// sequential.
	CrawlConcurrency int
}

func NewGWAS(client *resty.Client) *GWAS {
	return &GWAS{
		Http:   client,
		ApiUrl: "https://www.ebi.ac.uk/gwas/rest/api",
		FtpUrl: "https://ftp.ebi.ac.uk/pub/databases/gwas/summary_statistics",
	}
}

// rangeBucket computes the thousand-wide directory a study is filed under,
// e.g. GCST90027158 -> GCST90027001-GCST90028000/.
func rangeBucket(accession string) (string, error) {
	if len(accession) < 5 {
		return "", fmt.Errorf("accession %q too short", accession)
	}
	prefix := accession[:4]
	number, err := strconv.Atoi(accession[4:])
	if err != nil {
		return "", fmt.Errorf("accession %q has no numeric part: %w", accession, err)
	}

	lo := (number/1000)*1000 + 1
	hi := (number/1000 + 1) * 1000
	return fmt.Sprintf("%s%06d-%s%06d/", prefix, lo, prefix, hi), nil
}

func (g *GWAS) ResolveAccess(ctx context.Context, accession string) (resolve.AccessState, string) {
	ctx, span := tracer.Start(ctx, "gwas:ResolveAccess")
	defer span.End()

	if _, err := getBody(ctx, g.Http, fmt.Sprintf("%s/studies/%s", g.ApiUrl, accession)); err != nil {
		slog.WarnContext(ctx, "gwas study lookup failed", "accession", accession, "err", err)
		return resolve.AccessUnreachable, ""
	}
	return resolve.AccessPublic, ""
}

func (g *GWAS) ResolveFiles(ctx context.Context, accession string) []resolve.FileEntry {
	ctx, span := tracer.Start(ctx, "gwas:ResolveFiles")
	defer span.End()

	bucket, err := rangeBucket(accession)
	if err != nil {
		slog.WarnContext(ctx, "gwas bucket derivation failed", "err", err)
		return nil
	}

	root := fmt.Sprintf("%s/%s%s/", g.FtpUrl, bucket, accession)
	c := crawler.Crawler{
		Client:      g.Http,
		Concurrency: g.CrawlConcurrency,
	}
	files, err := c.Crawl(ctx, root)
	if err != nil {
		slog.WarnContext(ctx, "gwas tree crawl failed", "accession", accession, "root", root, "err", err)
		return nil
	}
	return files
}
