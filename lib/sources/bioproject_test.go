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

func TestBioProjectFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bioproject/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("term") != "" {
			fmt.Fprint(w, "<html><body><h1>PRJNA622023</h1>results</body></html>")
			return
		}
		fmt.Fprint(w, `<html><body><table>
<tr><td><a href="/sra/SRX1">SRX1 exome</a></td></tr>
<tr><td><a href="/sra/SRX2">SRX2 exome</a></td></tr>
</table></body></html>`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	b := &BioProject{Http: resty.New(), BaseUrl: server.URL}
	result := resolve.Process(context.Background(), b, "PRJNA622023")

	require.Equal(t, resolve.AccessPublic, result.Access)
	require.Len(t, result.Files, 2)
	require.Equal(t, "SRX1 exome", result.Files[0].Name)
}

func TestBioProjectMissingPhrase(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bioproject/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>No items found.</body></html>")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	b := &BioProject{Http: resty.New(), BaseUrl: server.URL}
	result := resolve.Process(context.Background(), b, "PRJNA0")

	require.Equal(t, resolve.AccessNotFound, result.Access)
	require.Equal(t, bioprojectMissingPhrase, result.RawCode)
	require.Nil(t, result.Files)
}

func TestBioProjectStageOneFailureSkipsStageTwo(t *testing.T) {
	var idPageCalls atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("/bioproject/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("term") != "" {
			http.Error(w, "search down", http.StatusServiceUnavailable)
			return
		}
		idPageCalls.Add(1)
		fmt.Fprint(w, "<html><table><tr><td><a href='/x'>x</a></td></tr></table></html>")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	b := &BioProject{Http: resty.New(), BaseUrl: server.URL}

	files := b.ResolveFiles(context.Background(), "PRJNA622023")
	require.Nil(t, files)
	require.Equal(t, int64(0), idPageCalls.Load(), "stage 2 must not run when stage 1 fails")

	result := resolve.Process(context.Background(), b, "PRJNA622023")
	require.Equal(t, resolve.AccessUnreachable, result.Access)
	require.Nil(t, result.Files)
}
