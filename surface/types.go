// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"
	"image"
)

// Dimensions is the drawable size of a surface in pixels.
// Both values are strictly positive; use NewDimensions to build one from
// untrusted input.
type Dimensions struct {
	Width  uint32
	Height uint32
}

// NewDimensions validates width and height and returns them as Dimensions.
// Zero-sized surfaces are refused with ErrZeroDimensions.
func NewDimensions(width, height uint32) (Dimensions, error) {
	if width == 0 || height == 0 {
		return Dimensions{}, fmt.Errorf("%w: %dx%d", ErrZeroDimensions, width, height)
	}
	return Dimensions{Width: width, Height: height}, nil
}

// IsZero reports whether either dimension is zero.
func (d Dimensions) IsZero() bool {
	return d.Width == 0 || d.Height == 0
}

// String returns the dimensions as "WxH".
func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// ViewportKind identifies the Viewport variant.
type ViewportKind uint8

const (
	// ViewportFull renders text to the entire surface.
	ViewportFull ViewportKind = iota

	// ViewportShrink renders text to a reduced area.
	ViewportShrink
)

// Viewport controls the area text is rendered to relative to the surface.
// The zero value is the Full viewport.
type Viewport struct {
	Kind ViewportKind

	// Width and Height are the margins kept free by a Shrink viewport.
	// They are ignored for ViewportFull.
	Width  uint32
	Height uint32
}

// Full returns the viewport covering the whole surface.
func Full() Viewport {
	return Viewport{Kind: ViewportFull}
}

// Shrink returns a viewport anchored at the top-right corner of the surface
// that leaves a width × height margin toward the bottom-left.
func Shrink(width, height uint32) Viewport {
	return Viewport{Kind: ViewportShrink, Width: width, Height: height}
}

// Area returns the rectangle text occupies on a surface of size d.
//
// A Shrink viewport larger than the surface yields an empty rectangle.
// Shrink(0, 0) yields the same rectangle as Full.
func (v Viewport) Area(d Dimensions) image.Rectangle {
	w, h := int(d.Width), int(d.Height)
	if v.Kind != ViewportShrink {
		return image.Rect(0, 0, w, h)
	}
	x0 := min(int(v.Width), w)
	y1 := max(h-int(v.Height), 0)
	if x0 >= w || y1 <= 0 {
		return image.Rectangle{}
	}
	return image.Rect(x0, 0, w, y1)
}

// String returns a short description of the viewport.
func (v Viewport) String() string {
	if v.Kind == ViewportShrink {
		return fmt.Sprintf("shrink(%d,%d)", v.Width, v.Height)
	}
	return "full"
}
