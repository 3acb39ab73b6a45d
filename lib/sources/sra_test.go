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

func sraServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/esearch.fcgi", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("term") {
		case "SRP000001":
			fmt.Fprint(w, `<eSearchResult><Count>1</Count><IdList><Id>42</Id></IdList></eSearchResult>`)
		default:
			fmt.Fprint(w, `<eSearchResult><Count>0</Count><IdList></IdList></eSearchResult>`)
		}
	})
	mux.HandleFunc("/esummary.fcgi", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "42", r.URL.Query().Get("id"))
		fmt.Fprint(w, `<eSummaryResult><DocSum>
			<Item Name="Title" Type="String">some experiment</Item>
			<Item Name="Runs" Type="String">&lt;Run acc="SRR000011" total_spots="100"/&gt;&lt;Run acc="SRR000012" total_spots="200"/&gt;</Item>
		</DocSum></eSummaryResult>`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestSRATwoStageRunListing(t *testing.T) {
	server := sraServer(t)

	sra := &SRA{Http: resty.New(), EutilsUrl: server.URL}
	result := resolve.Process(context.Background(), sra, "SRP000001")

	require.Equal(t, resolve.AccessPublic, result.Access)
	require.Len(t, result.Files, 2)
	require.Equal(t, "SRR000011", result.Files[0].Name)
	require.Equal(t, "SRR000012", result.Files[1].Name)
}

func TestSRAZeroCountIsNotFound(t *testing.T) {
	server := sraServer(t)

	sra := &SRA{Http: resty.New(), EutilsUrl: server.URL}
	result := resolve.Process(context.Background(), sra, "SRP999999")

	require.Equal(t, resolve.AccessNotFound, result.Access)
	require.Nil(t, result.Files)
}
