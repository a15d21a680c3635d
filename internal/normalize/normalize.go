// Package normalize converts arbitrary image bytes into the canonical PNG
// handed to the clipboard.
//
// Accepted inputs are whatever formats are registered with the image
// package: PNG, JPEG and GIF from the standard library, BMP, WebP and TIFF
// from golang.org/x/image. HEIC/HEIF is recognised but only decoded if a
// decoder for it has been registered; otherwise it fails cleanly with
// ErrUnsupportedFormat.
package normalize

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"clipbridge/internal/model"
)

const (
	// MinEncodedSize is the smallest PNG output treated as plausible.
	MinEncodedSize = 100
	// MaxPixels bounds width*height before any pixel data is decoded.
	MaxPixels = 64 << 20
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrDecode            = errors.New("image decode failed")
	ErrTooLarge          = errors.New("image dimensions too large")
	ErrCorruptOutput     = errors.New("encoded image is implausibly small")
)

// Mode names of the canonical bitmap.
const (
	ModeRGB  = "rgb"
	ModeGray = "gray"
)

// Result is a normalized image.
type Result struct {
	PNG          []byte
	Width        int
	Height       int
	SourceFormat string
	Mode         string
}

// Normalize decodes raw, converts it to RGB or grayscale and re-encodes it as
// PNG. PNG input is re-encoded too. Errors are *model.Error of
// KindConversion wrapping one of the sentinel errors above.
func Normalize(raw []byte) (*Result, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, decodeError(raw, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, model.Conversion("Could not process image", fmt.Errorf("%w: empty %s image", ErrDecode, format))
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, model.Conversion("Could not process image",
			fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height))
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, decodeError(raw, err)
	}

	canon, mode := Canonical(img)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canon); err != nil {
		return nil, model.Conversion("Could not process image", fmt.Errorf("encode png: %w", err))
	}
	if buf.Len() < MinEncodedSize {
		return nil, model.Conversion("Image conversion failed",
			fmt.Errorf("%w: %d bytes", ErrCorruptOutput, buf.Len()))
	}

	b := canon.Bounds()
	return &Result{
		PNG:          buf.Bytes(),
		Width:        b.Dx(),
		Height:       b.Dy(),
		SourceFormat: format,
		Mode:         mode,
	}, nil
}

func decodeError(raw []byte, err error) error {
	if errors.Is(err, image.ErrFormat) {
		if brand, ok := heifBrand(raw); ok {
			return model.Conversion("Could not process image",
				fmt.Errorf("%w: HEIC/HEIF (%s) decoding is not available", ErrUnsupportedFormat, brand))
		}
		return model.Conversion("Could not process image", ErrUnsupportedFormat)
	}
	return model.Conversion("Could not process image", fmt.Errorf("%w: %w", ErrDecode, err))
}

// Canonical returns img unchanged if it is single-channel grayscale, and
// otherwise an opaque RGBA copy with the alpha channel dropped (colour
// channels are kept un-premultiplied, not composited onto a background).
func Canonical(img image.Image) (image.Image, string) {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return img, ModeGray
	}

	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := dst.PixOffset(0, y-b.Min.Y)
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			dst.Pix[i+0] = c.R
			dst.Pix[i+1] = c.G
			dst.Pix[i+2] = c.B
			dst.Pix[i+3] = 0xff
			i += 4
		}
	}
	return dst, ModeRGB
}
