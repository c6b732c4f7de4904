package imagecache

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"

	// Decoders for the formats users actually upload.
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
)

// DefaultMaxDimension bounds cached images to keep the store small.
const DefaultMaxDimension = 512

// jpegQuality matches the lossy re-encode the web client performed.
const jpegQuality = 80

// Compress decodes an image, downsamples it so neither dimension exceeds
// maxDim while preserving aspect ratio, and re-encodes it as JPEG. It
// returns the binary payload and its base64 data URI form, ready for Save.
func Compress(data []byte, maxDim int) ([]byte, string, error) {
	if maxDim <= 0 {
		maxDim = DefaultMaxDimension
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, "", fmt.Errorf("image has empty bounds")
	}

	targetW, targetH := width, height
	if width > maxDim || height > maxDim {
		if width > height {
			targetW = maxDim
			targetH = height * maxDim / width
		} else {
			targetH = maxDim
			targetW = width * maxDim / height
		}
		if targetW < 1 {
			targetW = 1
		}
		if targetH < 1 {
			targetH = 1
		}
	}

	var resized image.Image = src
	if targetW != width || targetH != height {
		dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
		resized = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("failed to encode image: %w", err)
	}

	log.Debug().
		Str("format", format).
		Int("width", targetW).
		Int("height", targetH).
		Int("bytes", buf.Len()).
		Msg("compressed image")

	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	return buf.Bytes(), dataURL, nil
}
