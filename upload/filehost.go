package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// FileHost covers pomf-style hosts: a multipart "file" field, answered by a
// JSON array whose first element carries a relative "src" path that must be
// prefixed with the host's origin to form the final URL.
type FileHost struct {
	name     string
	endpoint string
	origin   string
	client   *http.Client
}

// NewFileHost creates a provider for one such host. origin is prepended to
// the returned src path (e.g. "https://example-host.io").
func NewFileHost(name, endpoint, origin string, client *http.Client) *FileHost {
	if client == nil {
		client = newHTTPClient()
	}
	return &FileHost{name: name, endpoint: endpoint, origin: strings.TrimRight(origin, "/"), client: client}
}

func (p *FileHost) Name() string { return p.name }

func (p *FileHost) Upload(ctx context.Context, c Candidate) (string, error) {
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

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%s upload failed: HTTP %d: %s", p.name, resp.StatusCode, string(raw))
	}

	src := gjson.ParseBytes(raw).Get("0.src").String()
	if src == "" {
		return "", fmt.Errorf("%s upload failed: response has no src field", p.name)
	}
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return src, nil
	}
	if !strings.HasPrefix(src, "/") {
		src = "/" + src
	}
	return p.origin + src, nil
}
