package sources

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"time"

	"repoaccess-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("lib/sources")

// NewClient builds the http client every adapter shares. One timeout per
// request, no retries: a failed request is terminal for that resolution.
func NewClient() *resty.Client {
	client := resty.New()
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(time.Second * 30)
	// some of the portals front their pages with cloudflare
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	telemetry.InstrumentResty(client, "sources/http")
	return client
}

func getBody(ctx context.Context, client *resty.Client, url string) ([]byte, error) {
	res, err := client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() >= 400 {
		return nil, fmt.Errorf("GET %s returned %s", url, res.Status())
	}
	return res.Body(), nil
}

func getJson(ctx context.Context, client *resty.Client, url string, out any) error {
	body, err := getBody(ctx, client, url)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func getXml(ctx context.Context, client *resty.Client, url string, out any) error {
	body, err := getBody(ctx, client, url)
	if err != nil {
		return err
	}
	return xml.Unmarshal(body, out)
}
