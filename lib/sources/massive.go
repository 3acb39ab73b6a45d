package sources

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"repoaccess-backend/lib/resolve"
	"repoaccess-backend/lib/scriptdata"

	"github.com/go-resty/resty/v2"
)

// MassIVE serves its file index as a javascript assignment inside the
// dataset result page, keyed by a task id that only appears in the url the
// dataset landing page redirects to.
type MassIVE struct {
	Http    *resty.Client
	BaseUrl string
}

func NewMassIVE(client *resty.Client) *MassIVE {
	return &MassIVE{
		Http:    client,
		BaseUrl: "https://massive.ucsd.edu",
	}
}

var massiveTaskRegex = regexp.MustCompile(`[?&]task=([0-9a-fA-F]+)`)

var massiveExtractor = scriptdata.Extractor{Variable: "dataset_files"}

// datasetTask fetches the landing page and mines the task id out of the
// resolved (post-redirect) url, not the body.
func (m *MassIVE) datasetTask(ctx context.Context, accession string) (string, error) {
	res, err := m.Http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("%s/ProteoSAFe/dataset.jsp?accession=%s", m.BaseUrl, accession))
	if err != nil {
		return "", err
	}
	if res.StatusCode() >= 400 {
		return "", fmt.Errorf("dataset page returned %s", res.Status())
	}

	resolved := res.Request.URL
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		resolved = res.RawResponse.Request.URL.String()
	}
	groups := massiveTaskRegex.FindStringSubmatch(resolved)
	if len(groups) < 2 {
		return "", fmt.Errorf("no task id in resolved url %q", resolved)
	}
	return groups[1], nil
}

func (m *MassIVE) ResolveAccess(ctx context.Context, accession string) (resolve.AccessState, string) {
	ctx, span := tracer.Start(ctx, "massive:ResolveAccess")
	defer span.End()

	if _, err := m.datasetTask(ctx, accession); err != nil {
		slog.WarnContext(ctx, "massive dataset page failed", "accession", accession, "err", err)
		return resolve.AccessUnreachable, ""
	}
	return resolve.AccessPublic, ""
}

func (m *MassIVE) ResolveFiles(ctx context.Context, accession string) []resolve.FileEntry {
	ctx, span := tracer.Start(ctx, "massive:ResolveFiles")
	defer span.End()

	task, err := m.datasetTask(ctx, accession)
	if err != nil {
		// never issue the listing request with an empty task id
		slog.WarnContext(ctx, "massive task extraction failed", "accession", accession, "err", err)
		return nil
	}

	url := fmt.Sprintf("%s/ProteoSAFe/result.jsp?task=%s&view=dataset_files", m.BaseUrl, task)
	body, err := getBody(ctx, m.Http, url)
	if err != nil {
		slog.WarnContext(ctx, "massive result page failed", "accession", accession, "task", task, "err", err)
		return nil
	}
	doc, err := parseDocument(body)
	if err != nil {
		slog.WarnContext(ctx, "massive result page unparseable", "accession", accession, "err", err)
		return nil
	}

	names, err := massiveExtractor.ExtractStrings(scriptBodies(doc), "row_data", "name")
	if err != nil {
		slog.WarnContext(ctx, "massive file index extraction failed", "accession", accession, "err", err)
		return nil
	}

	files := []resolve.FileEntry{}
	for _, name := range names {
		files = append(files, resolve.FileEntry{Name: name})
	}
	return files
}
