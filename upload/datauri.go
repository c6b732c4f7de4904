package upload

import (
	"context"
	"encoding/base64"
)

// DataURI is the terminal fallback: no network call at all, the image is
// embedded as a base64 data URI. It always succeeds, at the cost of the
// resulting "URL" only being meaningful where the data itself travels.
type DataURI struct{}

// NewDataURI creates the local embed provider.
func NewDataURI() *DataURI { return &DataURI{} }

func (p *DataURI) Name() string { return "data-uri" }

func (p *DataURI) Upload(_ context.Context, c Candidate) (string, error) {
	mime := c.MIME
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(c.Data), nil
}
