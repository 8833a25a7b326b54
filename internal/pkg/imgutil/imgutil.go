package imgutil

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	"github.com/disintegration/imaging"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	// MaxWidth bounds the longer dimension of a recompressed image.
	// 600px is enough for reference thumbnails and keeps records small.
	MaxWidth = 600

	// Quality is the lossy JPEG re-encode factor.
	Quality = 50
)

var ErrNotDataURI = errors.New("not a data URI")

// Compress decodes raw image bytes (jpeg, png, gif or webp), downscales so
// neither dimension exceeds MaxWidth, re-encodes as lossy JPEG and wraps
// the result in a self-describing data URI.
func Compress(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > MaxWidth || bounds.Dy() > MaxWidth {
		img = imaging.Fit(img, MaxWidth, MaxWidth, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: Quality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// CompressDataURI recompresses an image already wrapped in a data URI.
func CompressDataURI(uri string) (string, error) {
	raw, err := DecodeDataURI(uri)
	if err != nil {
		return "", err
	}
	return Compress(raw)
}

// DecodeDataURI extracts the payload bytes of a base64 data URI.
func DecodeDataURI(uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, ErrNotDataURI
	}
	idx := strings.Index(uri, ",")
	if idx < 0 {
		return nil, ErrNotDataURI
	}
	meta, payload := uri[5:idx], uri[idx+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, ErrNotDataURI
	}
	return base64.StdEncoding.DecodeString(payload)
}
