package main

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// textPadding is the left and top inset of the first line, in pixels.
const textPadding = 4

// loadFace returns a Go Regular face at size pixels, or the built-in 7x13
// bitmap face when size is zero.
func loadFace(size float64) (font.Face, error) {
	if size <= 0 {
		return basicfont.Face7x13, nil
	}
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	return face, nil
}

// drawLines rasterizes lines top to bottom into a transparent w×h image.
// Glyph coverage is written as premultiplied white.
func drawLines(face font.Face, lines []string, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	m := face.Metrics()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
	}

	y := fixed.I(textPadding) + m.Ascent
	for _, line := range lines {
		if y-m.Ascent >= fixed.I(h) {
			break
		}
		d.Dot = fixed.Point26_6{X: fixed.I(textPadding), Y: y}
		d.DrawString(line)
		y += m.Height
	}
	return img
}
