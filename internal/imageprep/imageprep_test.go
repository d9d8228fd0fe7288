package imageprep

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestPrepare_KeepsSmallImage(t *testing.T) {
	data := encodePNG(t, solid(120, 80))

	out, err := NewProcessor(1024).Prepare(data)
	require.NoError(t, err)
	assert.False(t, out.Resized)
	assert.Equal(t, data, out.Data)
	assert.Equal(t, "image/png", out.ContentType)
	assert.Equal(t, ".png", out.Ext)
	assert.Equal(t, 120, out.Width)
}

func TestPrepare_ResizesLargeImage(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, jpeg.Encode(buf, solid(400, 200), &jpeg.Options{Quality: 80}))

	out, err := NewProcessor(100).Prepare(buf.Bytes())
	require.NoError(t, err)
	assert.True(t, out.Resized)
	assert.Equal(t, "image/jpeg", out.ContentType)
	assert.Equal(t, ".jpg", out.Ext)
	assert.Equal(t, 100, out.Width)
	assert.Equal(t, 50, out.Height)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestPrepare_Rejects(t *testing.T) {
	p := NewProcessor(1024)

	_, err := p.Prepare([]byte("definitely not an image"))
	assert.Error(t, err)

	buf := new(bytes.Buffer)
	require.NoError(t, gif.Encode(buf, solid(10, 10), nil))
	_, err = p.Prepare(buf.Bytes())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = p.Prepare(make([]byte, MaxInputSize+1))
	assert.ErrorIs(t, err, ErrTooLarge)
}

// withDeclaredSize sửa IHDR của một PNG hợp lệ để khai báo w x h (CRC được tính lại)
func withDeclaredSize(data []byte, w, h uint32) []byte {
	out := append([]byte(nil), data...)
	// 8 byte signature, 4 byte length, "IHDR", rồi width/height
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestPrepare_RejectsDecompressionBomb(t *testing.T) {
	data := withDeclaredSize(encodePNG(t, solid(1, 1)), 50000, 50000)
	require.Less(t, len(data), 1024)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "png", format)
	require.Equal(t, 50000, cfg.Width)

	_, err = NewProcessor(1024).Prepare(data)
	assert.ErrorIs(t, err, ErrTooManyPixels)
}

func TestPrepare_PixelCapBoundary(t *testing.T) {
	// đúng bằng MaxPixels vẫn qua bước kiểm tra header
	data := withDeclaredSize(encodePNG(t, solid(1, 1)), 8000, 5000)
	_, err := NewProcessor(10000).Prepare(data)
	assert.NotErrorIs(t, err, ErrTooManyPixels)

	data = withDeclaredSize(encodePNG(t, solid(1, 1)), 8000, 5001)
	_, err = NewProcessor(10000).Prepare(data)
	assert.ErrorIs(t, err, ErrTooManyPixels)
}
