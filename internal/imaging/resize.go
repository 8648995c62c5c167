// Package imaging scales uploaded avatars to a fixed width.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var ErrInvalidWidth = errors.New("imaging: width must be positive")

// Output is an encoded, resized image.
type Output struct {
	Data   []byte
	MIME   string
	Ext    string
	Width  int
	Height int
}

// ResizeToWidth decodes data, scales it to width keeping the aspect ratio and
// re-encodes it. JPEG input stays JPEG; everything else becomes PNG.
func ResizeToWidth(data []byte, width int) (Output, error) {
	if width <= 0 {
		return Output{}, ErrInvalidWidth
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Output{}, fmt.Errorf("decode: %w", err)
	}

	bounds := src.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return Output{}, fmt.Errorf("decode: empty image")
	}
	height := bounds.Dy() * width / bounds.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	out := Output{Width: width, Height: height}
	if format == "jpeg" {
		if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
			return Output{}, fmt.Errorf("encode jpeg: %w", err)
		}
		out.MIME, out.Ext = "image/jpeg", "jpg"
	} else {
		if err := png.Encode(&buf, dst); err != nil {
			return Output{}, fmt.Errorf("encode png: %w", err)
		}
		out.MIME, out.Ext = "image/png", "png"
	}
	out.Data = buf.Bytes()
	return out, nil
}
