// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"slices"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/textcomp/internal/logging"
)

// HALPresenter is a Presenter over a hal.Surface created by the host from
// its window handles.
type HALPresenter struct {
	surface hal.Surface
	adapter hal.Adapter
	queue   hal.Queue
}

// NewHALPresenter binds s for presentation through queue. adapter answers
// capability queries when the adapter passed to Capabilities is not a
// hal.Adapter.
func NewHALPresenter(s hal.Surface, adapter hal.Adapter, queue hal.Queue) *HALPresenter {
	return &HALPresenter{surface: s, adapter: adapter, queue: queue}
}

// NewHALLive is shorthand for NewLive(NewHALPresenter(s, adapter, queue)).
func NewHALLive(s hal.Surface, adapter hal.Adapter, queue hal.Queue) *Live {
	return NewLive(NewHALPresenter(s, adapter, queue))
}

// Surface returns the wrapped HAL surface.
func (p *HALPresenter) Surface() hal.Surface { return p.surface }

// Capabilities picks the first reported format, Fifo presentation and an
// opaque alpha mode when the surface supports one.
func (p *HALPresenter) Capabilities(adapter gpucontext.Adapter, width, height uint32) (Config, bool) {
	a, ok := adapter.(hal.Adapter)
	if !ok {
		a = p.adapter
	}
	if a == nil {
		return Config{}, false
	}
	caps := a.SurfaceCapabilities(p.surface)
	if caps == nil || len(caps.Formats) == 0 {
		return Config{}, false
	}

	return Config{
		SurfaceConfiguration: hal.SurfaceConfiguration{
			Width:       width,
			Height:      height,
			Format:      caps.Formats[0],
			Usage:       gputypes.TextureUsageRenderAttachment,
			PresentMode: gputypes.PresentModeFifo,
			AlphaMode:   pickAlphaMode(caps.AlphaModes),
		},
		MaxFrameLatency: DefaultMaxFrameLatency,
	}, true
}

func pickAlphaMode(modes []gputypes.CompositeAlphaMode) gputypes.CompositeAlphaMode {
	switch {
	case slices.Contains(modes, gputypes.CompositeAlphaModeOpaque):
		return gputypes.CompositeAlphaModeOpaque
	case len(modes) > 0:
		return modes[0]
	default:
		return gputypes.CompositeAlphaModeAuto
	}
}

// Configure applies the embedded hal.SurfaceConfiguration.
func (p *HALPresenter) Configure(device hal.Device, config *Config) error {
	return p.surface.Configure(device, &config.SurfaceConfiguration)
}

// Unconfigure drops the swapchain. Live.Destroy calls it.
func (p *HALPresenter) Unconfigure(device hal.Device) {
	p.surface.Unconfigure(device)
}

// Acquire returns the next surface texture. A suboptimal swapchain is
// still used; the host is expected to resize soon.
func (p *HALPresenter) Acquire() (hal.SurfaceTexture, error) {
	acquired, err := p.surface.AcquireTexture(nil)
	if err != nil {
		return nil, err
	}
	if acquired == nil {
		return nil, nil
	}
	if acquired.Suboptimal {
		logging.Logger().Debug("surface: acquired suboptimal texture")
	}
	return acquired.Texture, nil
}

// Present queues texture on the wrapped surface.
func (p *HALPresenter) Present(texture hal.SurfaceTexture) error {
	return p.queue.Present(p.surface, texture, nil)
}

// Discard returns texture to the surface without presenting it.
func (p *HALPresenter) Discard(texture hal.SurfaceTexture) {
	p.surface.DiscardTexture(texture)
}
