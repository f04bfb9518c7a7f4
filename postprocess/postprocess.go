// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package postprocess

import (
	"image"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/textcomp/surface"
)

// Inputs is everything a post-processor may depend on besides the GPU
// device: the text layer, the surface configuration and the drawing area.
type Inputs struct {
	// Text is the view of the intermediate texture holding composited text.
	Text hal.TextureView

	// TextSize is the size of the texture behind Text.
	TextSize surface.Dimensions

	// Config is the active surface configuration.
	Config *surface.Config

	// Area is the rectangle of the surface the text layer maps to. It may
	// be empty, in which case only the clear color is drawn.
	Area image.Rectangle

	// Retire schedules release to run once all GPU work submitted so far
	// has completed. Processors hand it objects that frames still in
	// flight may reference, such as a replaced bind group. When nil,
	// release runs immediately.
	Retire func(release func())
}

// retire runs release through in.Retire, or immediately without one.
func (in *Inputs) retire(release func()) {
	if in.Retire != nil {
		in.Retire(release)
		return
	}
	release()
}

// Builder constructs a Processor for a surface configuration.
//
// Compile is called once when the backend is created and again only when
// the surface format changes. Size changes go through Processor.Resize.
type Builder interface {
	Compile(device hal.Device, in *Inputs) (Processor, error)
}

// BuilderFunc adapts a function to the Builder interface.
type BuilderFunc func(device hal.Device, in *Inputs) (Processor, error)

// Compile calls f(device, in).
func (f BuilderFunc) Compile(device hal.Device, in *Inputs) (Processor, error) {
	return f(device, in)
}

// Processor turns the text layer into the final pixels of a frame.
//
// A Processor lives as long as the backend that compiled it. Its methods
// are called from a single goroutine.
type Processor interface {
	// Resize rebuilds everything that depends on the drawable size or the
	// text view, such as bind groups. It is always called before the next
	// Process after the surface or text texture changed.
	Resize(device hal.Device, in *Inputs) error

	// Process encodes the compositing commands that write into view.
	// view belongs to the current frame; it must not be retained.
	Process(encoder hal.CommandEncoder, queue hal.Queue, in *Inputs, view hal.TextureView) error

	// NeedsUpdate reports whether a frame must be produced even though the
	// text layer did not change, e.g. while an animation is running.
	NeedsUpdate() bool

	// Destroy releases all GPU objects.
	Destroy()
}

// Static can be embedded by processors whose output only changes when the
// text layer changes.
type Static struct{}

// NeedsUpdate always returns false.
func (Static) NeedsUpdate() bool { return false }
