package imagecache_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/moonfun/moonfun-portal/imagecache"
	"github.com/zeebo/assert"
)

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestCompressDownsamplesToMaxDimension(t *testing.T) {
	payload, dataURL, err := imagecache.Compress(testPNG(t, 1024, 256), 512)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(dataURL, "data:image/jpeg;base64,"))

	decoded, format, err := image.Decode(bytes.NewReader(payload))
	assert.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 512, decoded.Bounds().Dx())
	// Aspect ratio preserved: 1024x256 scales to 512x128.
	assert.Equal(t, 128, decoded.Bounds().Dy())
}

func TestCompressKeepsSmallImages(t *testing.T) {
	payload, _, err := imagecache.Compress(testPNG(t, 100, 60), 512)
	assert.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(payload))
	assert.NoError(t, err)
	assert.Equal(t, 100, decoded.Bounds().Dx())
	assert.Equal(t, 60, decoded.Bounds().Dy())
}

func TestCompressRejectsGarbage(t *testing.T) {
	_, _, err := imagecache.Compress([]byte("definitely not an image"), 512)
	assert.Error(t, err)
}
