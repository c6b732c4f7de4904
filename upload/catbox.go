package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

const (
	catboxEndpoint  = "https://catbox.moe/user/api.php"
	catboxURLPrefix = "https://files.catbox.moe/"
)

// Catbox uploads to catbox.moe's anonymous API: a multipart form with
// reqtype=fileupload and the payload under fileToUpload. Success is a 200
// with a plain-text body that is the file URL, recognized by its prefix.
type Catbox struct {
	endpoint  string
	urlPrefix string
	client    *http.Client
}

// NewCatbox creates the provider against the public catbox endpoint.
func NewCatbox() *Catbox {
	return &Catbox{endpoint: catboxEndpoint, urlPrefix: catboxURLPrefix, client: newHTTPClient()}
}

// NewCatboxWithEndpoint points the provider at a custom endpoint and URL
// prefix. Used in tests and for self-hosted mirrors.
func NewCatboxWithEndpoint(endpoint, urlPrefix string, client *http.Client) *Catbox {
	if client == nil {
		client = newHTTPClient()
	}
	return &Catbox{endpoint: endpoint, urlPrefix: urlPrefix, client: client}
}

func (p *Catbox) Name() string { return "catbox" }

func (p *Catbox) Upload(ctx context.Context, c Candidate) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("reqtype", "fileupload"); err != nil {
		return "", err
	}
	part, err := writer.CreateFormFile("fileToUpload", filenameOr(c, "upload.png"))
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

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	url := strings.TrimSpace(string(text))
	if resp.StatusCode == http.StatusOK && strings.HasPrefix(url, p.urlPrefix) {
		return url, nil
	}
	return "", fmt.Errorf("catbox upload failed: HTTP %d: %s", resp.StatusCode, url)
}

func filenameOr(c Candidate, fallback string) string {
	if c.Filename != "" {
		return c.Filename
	}
	return fallback
}
