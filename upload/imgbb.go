package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
)

const imgbbEndpoint = "https://api.imgbb.com/1/upload"

// ImgBB uploads through the imgbb.com API: the payload travels base64-encoded
// in a multipart "image" field, the API key as a query parameter. The
// response is JSON; success means {"success":true,"data":{"url":...}}.
type ImgBB struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewImgBB creates the provider with the given API key.
func NewImgBB(apiKey string) *ImgBB {
	return &ImgBB{endpoint: imgbbEndpoint, apiKey: apiKey, client: newHTTPClient()}
}

// NewImgBBWithEndpoint points the provider at a custom endpoint.
func NewImgBBWithEndpoint(endpoint, apiKey string, client *http.Client) *ImgBB {
	if client == nil {
		client = newHTTPClient()
	}
	return &ImgBB{endpoint: endpoint, apiKey: apiKey, client: client}
}

func (p *ImgBB) Name() string { return "imgbb" }

func (p *ImgBB) Upload(ctx context.Context, c Candidate) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("imgbb api key is not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("image", base64.StdEncoding.EncodeToString(c.Data)); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	endpoint := p.endpoint + "?key=" + url.QueryEscape(p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
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
	if parsed.Get("success").Bool() {
		if u := parsed.Get("data.url").String(); u != "" {
			return u, nil
		}
	}
	if msg := parsed.Get("error.message").String(); msg != "" {
		return "", fmt.Errorf("imgbb upload failed: %s", msg)
	}
	return "", fmt.Errorf("imgbb upload failed: HTTP %d", resp.StatusCode)
}
