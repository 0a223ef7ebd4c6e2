// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

func init() {
	// x/image/webp only ships a decoder, so it never registers itself.
	image.RegisterFormat("webp", "RIFF????WEBPVP8", webp.Decode, webp.DecodeConfig)
}

const (
	thumbnailMaxDim  = 400
	thumbnailQuality = 85
)

// decodeImage decodes submitted bytes as any supported format
// (JPEG, PNG, GIF, WebP) and returns the decoded frame.
func decodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// encodeThumbnail scales an image to fit within thumbnailMaxDim on its
// longer side, composites it over white (transparent sources flatten
// cleanly), and encodes it as JPEG. Images already small enough are
// re-encoded at 1:1.
func encodeThumbnail(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	tw, th := w, h
	if w > thumbnailMaxDim || h > thumbnailMaxDim {
		if w >= h {
			tw = thumbnailMaxDim
			th = h * thumbnailMaxDim / w
		} else {
			th = thumbnailMaxDim
			tw = w * thumbnailMaxDim / h
		}
		if tw < 1 {
			tw = 1
		}
		if th < 1 {
			th = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
