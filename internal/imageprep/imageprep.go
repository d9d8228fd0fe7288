// Package imageprep chuẩn hóa ảnh character trước khi upload:
// chỉ nhận JPEG/PNG, ảnh quá lớn được thu nhỏ giữ tỉ lệ.
package imageprep

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// MaxInputSize: file gốc lớn hơn thì từ chối luôn, không decode
const MaxInputSize = 20 << 20

// MaxPixels: giới hạn width*height theo header, kiểm tra trước khi decode
const MaxPixels = 40_000_000

var (
	ErrTooLarge          = errors.New("image exceeds 20MB")
	ErrTooManyPixels     = errors.New("image exceeds 40 megapixels")
	ErrUnsupportedFormat = errors.New("only jpeg and png images are allowed")
)

// Processor: MaxDimension là cạnh dài nhất sau khi resize
type Processor struct {
	MaxDimension int
	JPEGQuality  int
}

// Image là kết quả sẵn sàng upload
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
	Resized     bool
}

func NewProcessor(maxDimension int) *Processor {
	return &Processor{MaxDimension: maxDimension, JPEGQuality: 90}
}

// Prepare kiểm tra format rồi resize nếu cần.
// Ảnh đã nằm trong giới hạn được giữ nguyên bytes.
func (p *Processor) Prepare(data []byte) (*Image, error) {
	if len(data) > MaxInputSize {
		return nil, ErrTooLarge
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("not an image: %w", err)
	}
	if format != "jpeg" && format != "png" {
		return nil, fmt.Errorf("%w (got %s)", ErrUnsupportedFormat, format)
	}
	// file nén nhỏ vẫn có thể khai báo kích thước khổng lồ
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w (%dx%d)", ErrTooManyPixels, cfg.Width, cfg.Height)
	}

	out := &Image{
		Data:        data,
		ContentType: "image/" + format,
		Ext:         extension(format),
		Width:       cfg.Width,
		Height:      cfg.Height,
	}
	if cfg.Width <= p.MaxDimension && cfg.Height <= p.MaxDimension {
		return out, nil
	}

	// STEP 1: decode (JPEG có EXIF orientation thì xoay đúng chiều)
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	// STEP 2: fit vào khung vuông MaxDimension
	resized := imaging.Fit(img, p.MaxDimension, p.MaxDimension, imaging.Lanczos)

	// STEP 3: encode lại đúng format gốc
	buf := new(bytes.Buffer)
	encFormat := imaging.PNG
	if format == "jpeg" {
		encFormat = imaging.JPEG
	}
	if err := imaging.Encode(buf, resized, encFormat, imaging.JPEGQuality(p.JPEGQuality)); err != nil {
		return nil, fmt.Errorf("cannot encode image: %w", err)
	}

	bounds := resized.Bounds()
	out.Data = buf.Bytes()
	out.Width = bounds.Dx()
	out.Height = bounds.Dy()
	out.Resized = true
	return out, nil
}

func extension(format string) string {
	if format == "jpeg" {
		return ".jpg"
	}
	return "." + format
}
