// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging validates uploaded sketches and produces small PNG
// previews of stored images. Only PNG, JPEG and WebP input is accepted.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	_ "image/jpeg"

	"github.com/gabriel-vasile/mimetype"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxSketchSize is the largest accepted upload in bytes.
const MaxSketchSize = 10 << 20

// MaxSketchPixels caps the decoded size of a sketch. Compressed formats can
// declare dimensions far beyond what MaxSketchSize suggests.
const MaxSketchPixels = 40_000_000

var (
	// ErrFileRead is returned when the upload cannot be read or decoded.
	ErrFileRead = errors.New("failed to read the uploaded file")

	// ErrUnsupportedType is returned for images that are not PNG, JPEG or WebP.
	ErrUnsupportedType = errors.New("unsupported image type")

	// ErrTooLarge is returned for uploads over MaxSketchSize.
	ErrTooLarge = errors.New("image exceeds 10 MiB")

	// ErrTooManyPixels is returned for images over MaxSketchPixels.
	ErrTooManyPixels = errors.New("image dimensions too large")
)

// AcceptedTypes lists the supported upload content types.
var AcceptedTypes = []string{"image/png", "image/jpeg", "image/webp"}

// Sketch is a validated upload.
type Sketch struct {
	Name     string
	MIMEType string
	Data     []byte
	Width    int
	Height   int
}

// DecodeSketch reads an upload and checks that it is a supported image.
// The content type is sniffed from the data, not taken from the client.
func DecodeSketch(name string, r io.Reader) (*Sketch, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSketchSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileRead, err)
	}
	if len(data) > MaxSketchSize {
		return nil, ErrTooLarge
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrFileRead)
	}

	detected := mimetype.Detect(data)
	if !mimetype.EqualsAny(detected.String(), AcceptedTypes...) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, detected.String())
	}
	mimeType := detected.String()

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileRead, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxSketchPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}

	return &Sketch{
		Name:     name,
		MIMEType: mimeType,
		Data:     data,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

// Thumbnail decodes an image and returns a PNG scaled to the given width,
// keeping the aspect ratio. Images already narrower than width are
// re-encoded at their original size.
func Thumbnail(data []byte, width int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("thumbnail decode: %w", err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if width > 0 && w > width {
		h = max(1, h*width/w)
		w = width
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("thumbnail encode: %w", err)
	}
	return buf.Bytes(), nil
}
