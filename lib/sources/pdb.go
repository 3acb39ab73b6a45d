package sources

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"repoaccess-backend/lib/resolve"

	"github.com/go-resty/resty/v2"
)

// pdbStatuses maps the wwPDB deposition codes onto the canonical vocabulary.
var pdbStatuses = resolve.StatusTable{
	"REL":  resolve.AccessPublic,
	"HOLD": resolve.AccessPending,
	"HPUB": resolve.AccessPending,
	"PROC": resolve.AccessPending,
	"WAIT": resolve.AccessPending,
	"AUTH": resolve.AccessPending,
	"REFI": resolve.AccessPending,
	"WDRN": resolve.AccessWithdrawn,
	"OBS":  resolve.AccessWithdrawn,
}

type PDB struct {
	Http *resty.Client
	// ApiUrl serves the entry status json, FastaUrl the sequence listing.
	ApiUrl   string
	FastaUrl string
}

func NewPDB(client *resty.Client) *PDB {
	return &PDB{
		Http:     client,
		ApiUrl:   "https://data.rcsb.org",
		FastaUrl: "https://www.rcsb.org",
	}
}

func (p *PDB) ResolveAccess(ctx context.Context, accession string) (resolve.AccessState, string) {
	ctx, span := tracer.Start(ctx, "pdb:ResolveAccess")
	defer span.End()

	var entry struct {
		DatabaseStatus struct {
			StatusCode string `json:"status_code"`
		} `json:"pdbx_database_status"`
	}
	url := fmt.Sprintf("%s/rest/v1/core/entry/%s", p.ApiUrl, accession)
	if err := getJson(ctx, p.Http, url, &entry); err != nil {
		slog.WarnContext(ctx, "pdb status lookup failed", "accession", accession, "err", err)
		return resolve.AccessUnreachable, ""
	}
	return pdbStatuses.Normalize(entry.DatabaseStatus.StatusCode)
}

func (p *PDB) ResolveFiles(ctx context.Context, accession string) []resolve.FileEntry {
	ctx, span := tracer.Start(ctx, "pdb:ResolveFiles")
	defer span.End()

	url := fmt.Sprintf("%s/fasta/entry/%s", p.FastaUrl, accession)
	body, err := getBody(ctx, p.Http, url)
	if err != nil {
		slog.WarnContext(ctx, "pdb fasta lookup failed", "accession", accession, "err", err)
		return nil
	}

	// every fasta header line is one sequence entry
	files := []resolve.FileEntry{}
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, ">") {
			continue
		}
		files = append(files, resolve.FileEntry{
			Name:        strings.TrimPrefix(line, ">"),
			DownloadUrl: url,
		})
	}
	return files
}
