// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package imaging prepares document photos for upload.
//
// Photos from phones are often several thousand pixels wide. Normalize scales
// them down to MaxWidth and re-encodes them as JPEG so the analysis request
// stays small. Images that are already narrow enough keep their size.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	// Register decoders for image.Decode.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// MaxWidth is the widest image sent to the backend.
	MaxWidth = 1024

	// Quality is the JPEG quality factor (0.8).
	Quality = 80
)

// ErrDecode is returned for unreadable or corrupt images.
var ErrDecode = errors.New("could not read image")

// Normalized is a JPEG ready for upload.
type Normalized struct {
	Width  int
	Height int
	JPEG   []byte
}

// Base64 returns the raw base64 payload, without a data URL prefix.
func (n *Normalized) Base64() string {
	return base64.StdEncoding.EncodeToString(n.JPEG)
}

// DataURL returns the image as a data:image/jpeg URL.
func (n *Normalized) DataURL() string {
	return DataURL("image/jpeg", n.JPEG)
}

// Normalize decodes data, scales it so its width is at most MaxWidth while
// keeping the aspect ratio, and encodes it as JPEG at Quality.
func Normalize(data []byte) (*Normalized, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	w, h := ScaledSize(src.Bounds().Dx(), src.Bounds().Dy(), MaxWidth)
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrDecode)
	}

	// JPEG has no alpha; paint onto white so transparent regions stay legible.
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	if w == src.Bounds().Dx() && h == src.Bounds().Dy() {
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return &Normalized{Width: w, Height: h, JPEG: buf.Bytes()}, nil
}

// ScaledSize returns the target size for an image of width x height so that
// the width does not exceed maxWidth. It never upscales.
func ScaledSize(width, height, maxWidth int) (int, int) {
	if width <= maxWidth || width <= 0 {
		return width, height
	}
	h := (height*maxWidth + width/2) / width
	if h < 1 {
		h = 1
	}
	return maxWidth, h
}

// DataURL builds a base64 data URL for display previews.
func DataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Dimensions reports the size of an encoded image without decoding pixels.
func Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return cfg.Width, cfg.Height, nil
}
