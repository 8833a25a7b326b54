package imgutil

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func decodeResult(t *testing.T, uri string) image.Image {
	t.Helper()
	raw, err := DecodeDataURI(uri)
	require.NoError(t, err)
	img, format, err := image.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	return img
}

func TestCompressDownscalesLargeImages(t *testing.T) {
	uri, err := Compress(encodeJPEG(t, 1200, 800))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"))

	img := decodeResult(t, uri)
	assert.LessOrEqual(t, img.Bounds().Dx(), MaxWidth)
	assert.LessOrEqual(t, img.Bounds().Dy(), MaxWidth)
}

func TestCompressKeepsSmallImageDimensions(t *testing.T) {
	uri, err := Compress(encodeJPEG(t, 300, 200))
	require.NoError(t, err)

	img := decodeResult(t, uri)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestCompressAcceptsPNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 50, 50))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	uri, err := Compress(buf.Bytes())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"))
}

func TestCompressRejectsGarbage(t *testing.T) {
	_, err := Compress([]byte("definitely not an image"))
	assert.Error(t, err)
}

func TestCompressDataURI(t *testing.T) {
	raw := encodeJPEG(t, 700, 700)
	uri := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw)

	out, err := CompressDataURI(uri)
	require.NoError(t, err)

	img := decodeResult(t, out)
	assert.LessOrEqual(t, img.Bounds().Dx(), MaxWidth)
}

func TestDecodeDataURI(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("hello"))

	raw, err := DecodeDataURI("data:text/plain;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), raw)

	_, err = DecodeDataURI("http://example.com/image.jpg")
	assert.ErrorIs(t, err, ErrNotDataURI)

	_, err = DecodeDataURI("data:text/plain,plain-not-base64")
	assert.ErrorIs(t, err, ErrNotDataURI)

	_, err = DecodeDataURI("data:missing-comma;base64")
	assert.ErrorIs(t, err, ErrNotDataURI)
}
