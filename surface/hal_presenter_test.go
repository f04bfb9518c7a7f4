// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// noopWindow opens a noop device together with a surface and its adapter.
type noopWindow struct {
	instance hal.Instance
	surface  hal.Surface
	adapter  hal.Adapter
	device   hal.Device
	queue    hal.Queue
}

func openNoopWindow(t *testing.T) *noopWindow {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	s, err := instance.CreateSurface(0, 0)
	if err != nil {
		instance.Destroy()
		t.Fatalf("CreateSurface failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(s)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	w := &noopWindow{
		instance: instance,
		surface:  s,
		adapter:  adapters[0].Adapter,
		device:   openDev.Device,
		queue:    openDev.Queue,
	}
	t.Cleanup(func() {
		w.device.Destroy()
		w.instance.Destroy()
	})
	return w
}

func TestHALPresenterCapabilities(t *testing.T) {
	w := openNoopWindow(t)
	p := NewHALPresenter(w.surface, w.adapter, w.queue)

	tests := []struct {
		name    string
		adapter any
	}{
		{"adapter argument", w.adapter},
		{"fallback adapter", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, ok := p.Capabilities(tt.adapter, 300, 200)
			if !ok {
				t.Fatal("Capabilities returned false for the noop adapter")
			}
			if cfg.Width != 300 || cfg.Height != 200 {
				t.Errorf("size = %dx%d, want 300x200", cfg.Width, cfg.Height)
			}
			if cfg.Format != gputypes.TextureFormatBGRA8Unorm {
				t.Errorf("format = %v, want the first reported format BGRA8Unorm", cfg.Format)
			}
			if cfg.PresentMode != gputypes.PresentModeFifo {
				t.Errorf("present mode = %v, want Fifo", cfg.PresentMode)
			}
			if cfg.AlphaMode != gputypes.CompositeAlphaModeOpaque {
				t.Errorf("alpha mode = %v, want Opaque", cfg.AlphaMode)
			}
			if cfg.Usage&gputypes.TextureUsageRenderAttachment == 0 {
				t.Error("usage lacks RenderAttachment")
			}
		})
	}

	if _, ok := NewHALPresenter(w.surface, nil, w.queue).Capabilities(nil, 1, 1); ok {
		t.Error("Capabilities without any adapter returned true")
	}
}

func TestPickAlphaMode(t *testing.T) {
	tests := []struct {
		name  string
		modes []gputypes.CompositeAlphaMode
		want  gputypes.CompositeAlphaMode
	}{
		{"none", nil, gputypes.CompositeAlphaModeAuto},
		{"opaque preferred", []gputypes.CompositeAlphaMode{
			gputypes.CompositeAlphaModePremultiplied, gputypes.CompositeAlphaModeOpaque,
		}, gputypes.CompositeAlphaModeOpaque},
		{"first otherwise", []gputypes.CompositeAlphaMode{
			gputypes.CompositeAlphaModeInherit, gputypes.CompositeAlphaModePremultiplied,
		}, gputypes.CompositeAlphaModeInherit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickAlphaMode(tt.modes); got != tt.want {
				t.Errorf("pickAlphaMode = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHALLiveFrame(t *testing.T) {
	w := openNoopWindow(t)
	s := NewHALLive(w.surface, w.adapter, w.queue)
	defer s.Destroy()

	cfg, ok := s.DefaultConfig(w.adapter, 128, 64)
	if !ok {
		t.Fatal("DefaultConfig returned false")
	}
	if err := s.Configure(w.device, &cfg); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		tgt := s.CurrentTarget()
		if tgt == nil {
			t.Fatalf("frame %d: nil target", i)
		}
		if tgt.Width() != 128 || tgt.Height() != 64 {
			t.Errorf("frame %d: size %dx%d, want 128x64", i, tgt.Width(), tgt.Height())
		}
		if i == 0 {
			if err := tgt.Present(); err != nil {
				t.Fatalf("Present failed: %v", err)
			}
		} else {
			tgt.Discard()
		}
	}
}

// stubSurface is a hal.Surface whose acquisitions return a scripted error.
type stubSurface struct {
	hal.Surface
	acquireErr   error
	unconfigured int
}

func (s *stubSurface) AcquireTexture(hal.Fence) (*hal.AcquiredSurfaceTexture, error) {
	return nil, s.acquireErr
}

func (s *stubSurface) Configure(hal.Device, *hal.SurfaceConfiguration) error { return nil }
func (s *stubSurface) Unconfigure(hal.Device)                                { s.unconfigured++ }

func TestHALLiveAcquireErrors(t *testing.T) {
	w := openNoopWindow(t)

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"not ready", hal.ErrNotReady, ErrNotReady},
		{"timeout", hal.ErrTimeout, ErrTimeout},
		{"outdated", hal.ErrSurfaceOutdated, ErrSurfaceOutdated},
		{"lost", hal.ErrSurfaceLost, ErrSurfaceLost},
		{"out of memory", hal.ErrDeviceOutOfMemory, ErrOutOfMemory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubSurface{Surface: w.surface, acquireErr: tt.err}
			s := NewHALLive(stub, w.adapter, w.queue)
			cfg, _ := s.DefaultConfig(w.adapter, 16, 16)
			if err := s.Configure(w.device, &cfg); err != nil {
				t.Fatalf("Configure failed: %v", err)
			}
			if s.CurrentTarget() != nil {
				t.Fatal("expected nil target")
			}
			if !errors.Is(s.AcquireErr(), tt.want) {
				t.Errorf("AcquireErr() = %v, want %v", s.AcquireErr(), tt.want)
			}
			s.Destroy()
			if stub.unconfigured != 1 {
				t.Errorf("unconfigured = %d, want 1", stub.unconfigured)
			}
		})
	}
}
