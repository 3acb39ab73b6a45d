package sources

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"repoaccess-backend/lib/resolve"

	"github.com/go-resty/resty/v2"
)

// SRA talks to the eutils endpoints, which only speak xml. Listing is a
// two-stage lookup: esearch resolves the accession to an internal uid,
// esummary keyed by that uid carries the run list.
type SRA struct {
	Http      *resty.Client
	EutilsUrl string
}

func NewSRA(client *resty.Client) *SRA {
	return &SRA{
		Http:      client,
		EutilsUrl: "https://eutils.ncbi.nlm.nih.gov/entrez/eutils",
	}
}

type sraSearchResult struct {
	Count int      `xml:"Count"`
	Ids   []string `xml:"IdList>Id"`
}

type sraSummaryResult struct {
	Items []struct {
		Name  string `xml:"Name,attr"`
		Value string `xml:",chardata"`
	} `xml:"DocSum>Item"`
}

func (s *SRA) search(ctx context.Context, accession string) (sraSearchResult, error) {
	var result sraSearchResult
	url := fmt.Sprintf("%s/esearch.fcgi?db=sra&term=%s", s.EutilsUrl, accession)
	err := getXml(ctx, s.Http, url, &result)
	return result, err
}

func (s *SRA) ResolveAccess(ctx context.Context, accession string) (resolve.AccessState, string) {
	ctx, span := tracer.Start(ctx, "sra:ResolveAccess")
	defer span.End()

	result, err := s.search(ctx, accession)
	if err != nil {
		slog.WarnContext(ctx, "sra search failed", "accession", accession, "err", err)
		return resolve.AccessUnreachable, ""
	}
	if result.Count == 0 {
		return resolve.AccessNotFound, ""
	}
	return resolve.AccessPublic, ""
}

// the run list arrives as escaped markup inside the summary item, so the
// accessions are mined out of it textually
var sraRunRegex = regexp.MustCompile(`acc="([A-Z]{3}\d+)"`)

func (s *SRA) ResolveFiles(ctx context.Context, accession string) []resolve.FileEntry {
	ctx, span := tracer.Start(ctx, "sra:ResolveFiles")
	defer span.End()

	search, err := s.search(ctx, accession)
	if err != nil || len(search.Ids) == 0 {
		slog.WarnContext(ctx, "sra search failed", "accession", accession, "err", err)
		return nil
	}
	uid := search.Ids[0]

	var summary sraSummaryResult
	url := fmt.Sprintf("%s/esummary.fcgi?db=sra&id=%s", s.EutilsUrl, uid)
	if err := getXml(ctx, s.Http, url, &summary); err != nil {
		slog.WarnContext(ctx, "sra summary failed", "accession", accession, "uid", uid, "err", err)
		return nil
	}

	files := []resolve.FileEntry{}
	for _, item := range summary.Items {
		if item.Name != "Runs" {
			continue
		}
		for _, groups := range sraRunRegex.FindAllStringSubmatch(item.Value, -1) {
			files = append(files, resolve.FileEntry{Name: groups[1]})
		}
	}
	return files
}
