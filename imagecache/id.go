package imagecache

import (
	"math/rand"
	"strconv"
	"time"
)

// NewID generates an image id from the current time plus a random base36
// suffix. Not cryptographically secure and not guaranteed unique; a
// collision only silently overwrites one image, which is acceptable here.
func NewID() string {
	suffix := strconv.FormatInt(rand.Int63n(1<<35), 36)
	return "img_" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + suffix
}
