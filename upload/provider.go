// Package upload implements the image upload fallback chain used when
// creating a token: an ordered list of independent hosting providers tried
// strictly one after another until the first well-formed URL comes back.
// Each provider speaks its own ad hoc wire shape behind a uniform interface.
package upload

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Str("component", "upload").Logger()
}

// SetLogger allows setting a custom logger
func SetLogger(l zerolog.Logger) {
	log = l
}

// Candidate is a single image payload submitted for upload.
type Candidate struct {
	Data     []byte
	MIME     string
	Filename string
}

// Size returns the payload length in bytes.
func (c Candidate) Size() int64 {
	return int64(len(c.Data))
}

// Provider is one upload strategy. Upload returns a publicly reachable
// absolute URL (or a local data URI for the terminal fallback) on success.
type Provider interface {
	// Name identifies the provider in logs and aggregated error messages.
	Name() string
	// Upload attempts a single upload. No internal retries; any failure
	// advances the chain to the next provider.
	Upload(ctx context.Context, c Candidate) (string, error)
}

// Limits bounds what the chain accepts before any network attempt.
// Deployed revisions have used ceilings from 200KB up to 10MB, so the value
// is configuration rather than a literal.
type Limits struct {
	MaxBytes int64
}

// DefaultLimits allows images up to 10MB.
func DefaultLimits() Limits {
	return Limits{MaxBytes: 10 << 20}
}

var (
	// ErrNotImage rejects payloads whose declared MIME type is not image/*.
	ErrNotImage = errors.New("file must be an image")
	// ErrTooLarge rejects payloads over the configured ceiling.
	ErrTooLarge = errors.New("image exceeds the size limit")
)

// Validate runs the pre-network checks. It is applied once per chain
// invocation, regardless of how many providers end up being tried.
func Validate(c Candidate, l Limits) error {
	if !strings.HasPrefix(c.MIME, "image/") {
		return fmt.Errorf("%w: got %q", ErrNotImage, c.MIME)
	}
	if l.MaxBytes > 0 && c.Size() > l.MaxBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, c.Size(), l.MaxBytes)
	}
	return nil
}

// newHTTPClient returns the client providers use unless one is injected.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}
