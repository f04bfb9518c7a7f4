// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// RenderSurface is where the final image of each frame lands.
//
// The interface is sealed: Live and Synthetic are its only implementations.
// Callers above this package depend on the interface so that production and
// test builds share one code path.
type RenderSurface interface {
	// DefaultConfig returns capability-compatible presentation parameters
	// for adapter at the given size. It returns false if the adapter cannot
	// present to this surface.
	DefaultConfig(adapter gpucontext.Adapter, width, height uint32) (Config, bool)

	// Configure establishes or re-establishes the drawable state for config.
	// Calling it again with the same config is harmless.
	Configure(device hal.Device, config *Config) error

	// CurrentTarget acquires the drawable for the current frame. It returns
	// nil when acquisition fails; the caller skips the frame and retries on
	// the next tick.
	CurrentTarget() *Target

	// Destroy releases all resources owned by the surface.
	Destroy()

	isRenderSurface()
}

// Target is the drawable acquired for a single frame.
//
// The view returned by View is valid only until Present or Discard. Both are
// terminal: calling either twice, or calling View afterwards, panics because
// it means a frame-scoped resource escaped its frame.
//
// By default Present and Discard also destroy the view. A caller that has
// submitted GPU work referencing the view calls Retain first and Release
// once that work has completed.
type Target struct {
	texture hal.Texture
	view    hal.TextureView
	width   uint32
	height  uint32
	format  gputypes.TextureFormat

	// releaseView destroys view. present and discard are nil for
	// synthetic targets.
	releaseView func(hal.TextureView)
	present     func(hal.SurfaceTexture) error
	discard     func(hal.SurfaceTexture)

	done     bool
	retained bool
}

// View returns the texture view to render the frame into.
func (t *Target) View() hal.TextureView {
	t.mustBeLive("View")
	return t.view
}

// Width returns the width of the acquired texture in pixels.
func (t *Target) Width() uint32 { return t.width }

// Height returns the height of the acquired texture in pixels.
func (t *Target) Height() uint32 { return t.height }

// Format returns the pixel format of the acquired texture.
func (t *Target) Format() gputypes.TextureFormat { return t.format }

// Present hands the frame to the display. For synthetic targets it only
// ends the frame; the contents stay in the offscreen texture.
func (t *Target) Present() error {
	t.finish("Present")
	if t.present == nil {
		return nil
	}
	return t.present(t.texture)
}

// Discard ends the frame without presenting it. Use it when encoding
// failed after the target was acquired.
func (t *Target) Discard() {
	t.finish("Discard")
	if t.discard != nil {
		t.discard(t.texture)
	}
}

// Retain keeps the view alive past Present or Discard. The caller must
// call Release exactly once after the frame has ended.
func (t *Target) Retain() {
	t.mustBeLive("Retain")
	t.retained = true
}

// Release destroys the view of a retained target. It must be called after
// Present or Discard, once no GPU work references the view any more.
func (t *Target) Release() {
	if !t.retained || !t.done {
		panic("surface: Target.Release called on a frame that is not retained and ended")
	}
	t.retained = false
	t.releaseViewNow()
}

func (t *Target) finish(op string) {
	t.mustBeLive(op)
	t.done = true
	if !t.retained {
		t.releaseViewNow()
	}
}

func (t *Target) releaseViewNow() {
	if t.releaseView != nil && t.view != nil {
		t.releaseView(t.view)
	}
	t.view = nil
}

func (t *Target) mustBeLive(op string) {
	if t.done {
		panic("surface: Target." + op + " called after the frame was presented or discarded")
	}
}
