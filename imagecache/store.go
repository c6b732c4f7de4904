// Package imagecache is the legacy no-network image path: token images are
// compressed, stored as base64 data URIs in a durable keyed store, and
// referenced on-chain by a local://<id> sentinel resolved at render time.
// Images stored this way are only visible to the profile that created them.
package imagecache

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Str("component", "imagecache").Logger()
}

// SetLogger allows setting a custom logger
func SetLogger(l zerolog.Logger) {
	log = l
}

// Namespace is the key under which the whole image map is persisted.
const Namespace = "moonfun_images"

// Entry is one cached image. The JSON field names are a wire contract shared
// with the web client's storage format.
type Entry struct {
	ID        string `json:"id"`
	DataURL   string `json:"dataUrl"`
	CreatedAt int64  `json:"createdAt"`
}

// Store is keyed image storage. Implementations are last-write-wins per key;
// nothing is ever garbage-collected by this system. The store is injected
// into whatever needs it so tests can substitute MemStore.
type Store interface {
	// Get looks an entry up by id. A miss is ok=false, never an error.
	Get(id string) (Entry, bool, error)
	// Save inserts or overwrites the entry under its ID.
	Save(e Entry) error
	// ListKeys returns all stored ids, in no particular order.
	ListKeys() ([]string, error)
}
