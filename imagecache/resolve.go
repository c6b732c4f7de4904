package imagecache

import "strings"

// Scheme marks an on-chain image field as a pointer into this cache rather
// than a real URL. Legacy tokens carry local://<id>; newer tokens embed a
// data URI or an absolute URL directly.
const Scheme = "local://"

// IsLocalRef reports whether an image reference points into the local cache.
func IsLocalRef(ref string) bool {
	return strings.HasPrefix(ref, Scheme)
}

// RefID extracts the cache id from a local:// reference.
func RefID(ref string) string {
	return strings.TrimPrefix(ref, Scheme)
}

// Resolve turns an image reference into something renderable. Non-local
// references pass through untouched. A cache miss (different profile, store
// cleared) returns ok=false; the caller renders a placeholder, never errors.
func Resolve(store Store, ref string) (string, bool) {
	if !IsLocalRef(ref) {
		return ref, true
	}

	id := RefID(ref)
	entry, ok, err := store.Get(id)
	if err != nil {
		log.Warn().Err(err).Str("id", id).Msg("image cache lookup failed")
		return "", false
	}
	if !ok {
		log.Debug().Str("id", id).Msg("image cache miss")
		return "", false
	}
	return entry.DataURL, true
}
