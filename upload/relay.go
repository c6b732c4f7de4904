package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/tidwall/gjson"
)

// Relay uploads through the portal's own relay endpoint, which fans out to
// further external hosts server-side. One multipart "file" field in; JSON
// {"url": ...} on success, {"error": ...} with a non-2xx status otherwise.
type Relay struct {
	endpoint string
	client   *http.Client
}

// NewRelay creates the provider against a relay endpoint URL.
func NewRelay(endpoint string, client *http.Client) *Relay {
	if client == nil {
		client = newHTTPClient()
	}
	return &Relay{endpoint: endpoint, client: client}
}

func (p *Relay) Name() string { return "relay" }

func (p *Relay) Upload(ctx context.Context, c Candidate) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filenameOr(c, "upload.png"))
	if err != nil {
		return "", err
	}
	if _, err := part.Write(c.Data); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	parsed := gjson.ParseBytes(raw)
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if u := parsed.Get("url").String(); u != "" {
			return u, nil
		}
		return "", fmt.Errorf("relay upload failed: malformed response: %s", string(raw))
	}
	if msg := parsed.Get("error").String(); msg != "" {
		return "", fmt.Errorf("relay upload failed: %s", msg)
	}
	return "", fmt.Errorf("relay upload failed: HTTP %d", resp.StatusCode)
}
