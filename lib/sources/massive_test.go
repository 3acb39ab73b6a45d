package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"repoaccess-backend/lib/resolve"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func massiveResultPage() string {
	return `<html><head>
<script>console.log("navigation chrome, nothing useful");</script>
<script>
var dataset_files = {"total_rows": 2, "row_data": [{"name": "peak/run1.mzML"}, {"name": "raw/run1.raw"}]};
</script>
</head><body></body></html>`
}

func TestMassIVETwoStageLookup(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ProteoSAFe/dataset.jsp", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ProteoSAFe/result.jsp?task=abc123def&view=dataset_overview", http.StatusFound)
	})
	mux.HandleFunc("/ProteoSAFe/result.jsp", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, massiveResultPage())
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	m := &MassIVE{Http: resty.New(), BaseUrl: server.URL}
	result := resolve.Process(context.Background(), m, "MSV000012345")

	require.Equal(t, resolve.AccessPublic, result.Access)
	require.Len(t, result.Files, 2)
	require.Equal(t, "peak/run1.mzML", result.Files[0].Name)
	require.Equal(t, "raw/run1.raw", result.Files[1].Name)
}

func TestMassIVEMissingTaskFailsFast(t *testing.T) {
	var listingCalls atomic.Int64

	mux := http.NewServeMux()
	// the landing page resolves but never redirects to a task url
	mux.HandleFunc("/ProteoSAFe/dataset.jsp", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>landing</body></html>")
	})
	mux.HandleFunc("/ProteoSAFe/result.jsp", func(w http.ResponseWriter, r *http.Request) {
		listingCalls.Add(1)
		fmt.Fprint(w, massiveResultPage())
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	m := &MassIVE{Http: resty.New(), BaseUrl: server.URL}
	result := resolve.Process(context.Background(), m, "MSV000012345")

	require.Equal(t, resolve.AccessUnreachable, result.Access)
	require.Nil(t, result.Files)
	require.Equal(t, int64(0), listingCalls.Load(), "no listing request without a task id")
}

func TestMassIVEBrokenPayloadYieldsNilNotEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ProteoSAFe/dataset.jsp", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ProteoSAFe/result.jsp?task=abc123def", http.StatusFound)
	})
	mux.HandleFunc("/ProteoSAFe/result.jsp", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><script>var dataset_files = {"some_other_shape": []};</script></html>`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	m := &MassIVE{Http: resty.New(), BaseUrl: server.URL}
	files := m.ResolveFiles(context.Background(), "MSV000012345")
	require.Nil(t, files)
}
