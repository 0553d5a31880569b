// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	_ "image/jpeg"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// SyntheticName is the registry name of the offline provider.
const SyntheticName = "synthetic"

const syntheticSize = 256

// syntheticProvider produces deterministic images and copy without any
// network access. The same request always yields the same output.
type syntheticProvider struct{}

// NewSynthetic returns the offline provider.
func NewSynthetic() Provider {
	return syntheticProvider{}
}

func (syntheticProvider) Name() string { return SyntheticName }

// GenerateImage scales the reference (if decodable) onto a square canvas and
// tints it with a colour derived from the prompt.
func (syntheticProvider) GenerateImage(ctx context.Context, req ImageRequest) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sum := digest(req.Prompt, req.Reference)
	tint := color.RGBA{R: sum[0], G: sum[1], B: sum[2], A: 0x60}

	canvas := image.NewRGBA(image.Rect(0, 0, syntheticSize, syntheticSize))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.RGBA{R: sum[3], G: sum[4], B: sum[5], A: 0xff}}, image.Point{}, draw.Src)

	if req.Reference != nil {
		if ref, _, err := image.Decode(bytes.NewReader(req.Reference.Data)); err == nil {
			xdraw.ApproxBiLinear.Scale(canvas, canvas.Bounds(), ref, ref.Bounds(), xdraw.Over, nil)
		}
	}
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: tint}, image.Point{}, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("synthetic image encode: %w", err)
	}
	return &Image{MIMEType: "image/png", Data: buf.Bytes()}, nil
}

// GenerateStructured fills every schema field with a short placeholder text.
func (syntheticProvider) GenerateStructured(ctx context.Context, req TextRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	sum := digest(req.Prompt, nil)
	tag := hex.EncodeToString(sum[:4])

	out := make(map[string]string, len(req.Schema.Fields))
	for _, f := range req.Schema.Fields {
		out[f.Name] = fmt.Sprintf("Synthetic %s %s. %s", f.Name, tag, f.Description)
	}

	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("synthetic marshal: %w", err)
	}
	return string(b), nil
}

func digest(prompt string, ref *InlineImage) [sha256.Size]byte {
	h := sha256.New()
	h.Write([]byte(prompt))
	if ref != nil {
		h.Write(ref.Data)
	}
	var sum [sha256.Size]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
