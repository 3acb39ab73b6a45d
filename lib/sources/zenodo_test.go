package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"repoaccess-backend/lib/resolve"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestZenodoPublicRecord(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/records/7654321/files", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"enabled": true, "entries": [
			{"key": "dataset.zip", "size": 1048576, "updated": "2023-06-15T08:30:00.123456+00:00",
			 "links": {"content": "https://zenodo.example/content/dataset.zip"}}
		]}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	z := &Zenodo{Http: resty.New(), ApiUrl: server.URL}
	result := resolve.Process(context.Background(), z, "7654321")

	require.Equal(t, resolve.AccessPublic, result.Access)
	require.Len(t, result.Files, 1)
	require.Equal(t, "dataset.zip", result.Files[0].Name)
	require.Equal(t, "1.0M", result.Files[0].Size)
	require.Equal(t, "2023-06-15 08:30", result.Files[0].LastModified)
	require.Equal(t, "https://zenodo.example/content/dataset.zip", result.Files[0].DownloadUrl)
}

func TestZenodoDisabledFilesIsRestricted(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/records/7654321/files", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"enabled": false, "entries": []}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	z := &Zenodo{Http: resty.New(), ApiUrl: server.URL}
	state, raw := z.ResolveAccess(context.Background(), "7654321")

	require.Equal(t, resolve.AccessRestricted, state)
	require.Empty(t, raw)
}
