// Package httpclient is the reference Uploader (see worker.Uploader):
// it builds one HTTP request per batch.Batch, attaches a client token,
// optionally gzips the body, and classifies the response into an
// uploadstatus.Status. Core code never imports this package directly;
// it is wired in by whoever constructs a pipeline.Feature.
package httpclient

import (
	"bytes"
	"context"
	"net/http"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"

	"arcspan.dev/src/telemetry.pipeline/internal/batch"
	"arcspan.dev/src/telemetry.pipeline/internal/uploadstatus"
)

// RequestBuilder supplies the per-request pieces the core Client
// doesn't own: the endpoint and the client token. The core never
// inspects or interprets the token, per spec.md §1 -- it is opaque
// bytes this layer attaches to every request.
type RequestBuilder interface {
	Endpoint(featureName string) string
	ClientToken() string
}

// Client is a reference Uploader over net/http.
type Client struct {
	HTTP     *http.Client
	Builder  RequestBuilder
	Gzip     bool
	TokenHdr string // defaults to "DD-API-KEY" if empty
}

// New returns a Client. httpClient may be nil, in which case
// http.DefaultClient is used.
func New(httpClient *http.Client, builder RequestBuilder) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{HTTP: httpClient, Builder: builder}
}

// Upload implements worker.Uploader.
func (c *Client) Upload(ctx context.Context, b batch.Batch) uploadstatus.Status {
	body := b.Bytes
	var encoding string
	if c.Gzip {
		compressed, err := gzipBytes(body)
		if err == nil {
			body = compressed
			encoding = "gzip"
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Builder.Endpoint(b.FeatureName), bytes.NewReader(body))
	if err != nil {
		return uploadstatus.FromNetworkError(errors.Wrap(err, "build upload request"))
	}
	req.Header.Set("Content-Type", "application/json")
	if encoding != "" {
		req.Header.Set("Content-Encoding", encoding)
	}
	hdr := c.TokenHdr
	if hdr == "" {
		hdr = "DD-API-KEY"
	}
	req.Header.Set(hdr, c.Builder.ClientToken())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return uploadstatus.FromNetworkError(err)
	}
	defer resp.Body.Close()

	return uploadstatus.FromHTTPStatus(resp.StatusCode)
}

func gzipBytes(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
