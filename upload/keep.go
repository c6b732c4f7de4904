package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const keepEndpoint = "https://free.keep.sh"

// Keep uploads to keep.sh: the image bytes go out as the raw POST body, and
// success is any 2xx with a plain-text body starting with https://.
type Keep struct {
	endpoint string
	client   *http.Client
}

// NewKeep creates the provider against the public keep.sh endpoint.
func NewKeep() *Keep {
	return &Keep{endpoint: keepEndpoint, client: newHTTPClient()}
}

// NewKeepWithEndpoint points the provider at a custom endpoint.
func NewKeepWithEndpoint(endpoint string, client *http.Client) *Keep {
	if client == nil {
		client = newHTTPClient()
	}
	return &Keep{endpoint: endpoint, client: client}
}

func (p *Keep) Name() string { return "keep.sh" }

func (p *Keep) Upload(ctx context.Context, c Candidate) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(c.Data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", c.MIME)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	url := strings.TrimSpace(string(text))
	if resp.StatusCode >= 200 && resp.StatusCode < 300 && strings.HasPrefix(url, "https://") {
		return url, nil
	}
	return "", fmt.Errorf("keep.sh upload failed: HTTP %d: %s", resp.StatusCode, url)
}
