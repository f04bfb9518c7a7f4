// Package textarget manages the intermediate texture composited text is
// rendered into before post-processing.
package textarget

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/textcomp/internal/logging"
	"github.com/gogpu/textcomp/surface"
)

// Format is the pixel format of the text target.
const Format = gputypes.TextureFormatRGBA8Unorm

// Usage is the usage of the text target: sampled by the post-processor,
// rendered into by the text stage, and written by CPU uploads.
const Usage = gputypes.TextureUsageTextureBinding |
	gputypes.TextureUsageRenderAttachment |
	gputypes.TextureUsageCopyDst

// Target holds the text texture and its view. The zero value is empty and
// ready to use.
type Target struct {
	texture hal.Texture
	view    hal.TextureView
	size    surface.Dimensions
}

// Ensure makes sure the target is max(w,1) × max(h,1). If it already has
// that size this is a no-op and release is a no-op too.
//
// Otherwise a new texture and view are allocated and installed, and the
// previous ones are handed back through release. The caller must keep the
// previous view alive until everything bound to it was rebound, then call
// release exactly once.
func (t *Target) Ensure(device hal.Device, w, h uint32) (release func(), err error) {
	size := surface.Dimensions{Width: max(w, 1), Height: max(h, 1)}
	if t.texture != nil && t.size == size {
		return func() {}, nil
	}

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "text_target",
		Size:          hal.Extent3D{Width: size.Width, Height: size.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        Format,
		Usage:         Usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create text target texture: %w", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "text_target_view",
		Format:        Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("create text target view: %w", err)
	}

	oldTex, oldView := t.texture, t.view
	t.texture, t.view, t.size = tex, view, size
	logging.Logger().Debug("textarget: allocated", "size", size.String())

	return func() {
		if oldView != nil {
			device.DestroyTextureView(oldView)
		}
		if oldTex != nil {
			device.DestroyTexture(oldTex)
		}
	}, nil
}

// Texture returns the current texture, or nil before the first Ensure.
func (t *Target) Texture() hal.Texture { return t.texture }

// View returns the current view, or nil before the first Ensure.
func (t *Target) View() hal.TextureView { return t.view }

// Size returns the current size.
func (t *Target) Size() surface.Dimensions { return t.size }

// Destroy releases the current texture and view.
func (t *Target) Destroy(device hal.Device) {
	if t.view != nil {
		device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.texture != nil {
		device.DestroyTexture(t.texture)
		t.texture = nil
	}
	t.size = surface.Dimensions{}
}
