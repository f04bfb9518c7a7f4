// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/textcomp/internal/logging"
)

// Presenter is the window-bound presentation surface supplied by the host.
// textcomp never creates the window: it receives it, exactly like it
// receives the GPU device. NewHALPresenter adapts a hal.Surface.
type Presenter interface {
	// Capabilities returns the default configuration for adapter at the
	// given size, or false if the adapter cannot present to this window.
	Capabilities(adapter gpucontext.Adapter, width, height uint32) (Config, bool)

	// Configure (re)creates the swapchain for config.
	Configure(device hal.Device, config *Config) error

	// Acquire returns the next presentable texture. It may block up to the
	// platform presentation timeout. Errors should wrap ErrSurfaceLost,
	// ErrSurfaceOutdated, ErrTimeout, ErrNotReady or ErrOutOfMemory when
	// applicable.
	Acquire() (hal.SurfaceTexture, error)

	// Present queues texture for display.
	Present(texture hal.SurfaceTexture) error

	// Discard returns an acquired texture without presenting it.
	Discard(texture hal.SurfaceTexture)
}

// unconfigurer is implemented by presenters that hold swapchain state which
// must be dropped before the device goes away.
type unconfigurer interface {
	Unconfigure(device hal.Device)
}

// Live is a RenderSurface bound to a real window. It owns no pixel data and
// delegates everything to its Presenter.
type Live struct {
	presenter Presenter
	device    hal.Device
	config    Config
	ok        bool

	// acquireErr is the error of the last acquisition.
	acquireErr error
}

// NewLive wraps a host presenter.
func NewLive(p Presenter) *Live {
	return &Live{presenter: p}
}

func (*Live) isRenderSurface() {}

// Presenter returns the wrapped host presenter.
func (s *Live) Presenter() Presenter { return s.presenter }

// DefaultConfig delegates the capability query to the presenter.
func (s *Live) DefaultConfig(adapter gpucontext.Adapter, width, height uint32) (Config, bool) {
	return s.presenter.Capabilities(adapter, width, height)
}

// Configure (re)configures the presenter and remembers device and config
// for view creation.
func (s *Live) Configure(device hal.Device, config *Config) error {
	if device == nil {
		return ErrNilDevice
	}
	if err := s.presenter.Configure(device, config); err != nil {
		s.ok = false
		return err
	}
	s.device = device
	s.config = *config
	s.ok = true
	logging.Logger().Debug("surface: live configured",
		"width", config.Width, "height", config.Height, "format", config.Format,
		"present_mode", config.PresentMode, "alpha_mode", config.AlphaMode)
	return nil
}

// CurrentTarget acquires the next presentable texture and a view onto it.
// Any failure is logged and reported as nil.
func (s *Live) CurrentTarget() *Target {
	if !s.ok {
		return nil
	}
	tex, err := s.presenter.Acquire()
	s.acquireErr = err
	if errors.Is(err, ErrNotReady) {
		logging.Logger().Debug("surface: no image ready, skipping frame")
		return nil
	}
	if err != nil {
		logging.Logger().Warn("surface: acquire failed, skipping frame",
			"reason", acquireReason(err), "err", err)
		return nil
	}
	if tex == nil {
		logging.Logger().Warn("surface: presenter returned no texture, skipping frame")
		return nil
	}

	view, err := s.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "live_surface_view",
		Format:        s.config.Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		s.presenter.Discard(tex)
		logging.Logger().Warn("surface: create view failed, skipping frame", "err", err)
		return nil
	}

	device := s.device
	return &Target{
		texture:     tex,
		view:        view,
		width:       s.config.Width,
		height:      s.config.Height,
		format:      s.config.Format,
		releaseView: device.DestroyTextureView,
		present:     s.presenter.Present,
		discard:     s.presenter.Discard,
	}
}

// AcquireErr returns the error of the most recent acquisition, or nil if
// it succeeded. The frame driver uses it to tell ErrNotReady apart from
// real failures.
func (s *Live) AcquireErr() error { return s.acquireErr }

// Destroy unconfigures the presenter when it supports it and forgets the
// device. The presenter itself belongs to the host.
func (s *Live) Destroy() {
	if u, ok := s.presenter.(unconfigurer); ok && s.device != nil {
		u.Unconfigure(s.device)
	}
	s.device = nil
	s.ok = false
}

// acquireReason classifies an acquisition error for logging.
func acquireReason(err error) string {
	switch {
	case errors.Is(err, ErrSurfaceLost):
		return "lost"
	case errors.Is(err, ErrSurfaceOutdated):
		return "outdated"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrNotReady):
		return "not_ready"
	case errors.Is(err, ErrOutOfMemory):
		return "out_of_memory"
	default:
		return "other"
	}
}
