// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"
	"image"
	"time"
	"unsafe"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/textcomp/internal/inflight"
	"github.com/gogpu/textcomp/internal/logging"
)

// readbackTimeout bounds the GPU wait in ReadPixels.
var readbackTimeout = 5 * time.Second

// readbackPoll is the interval ReadPixels polls the queue at.
const readbackPoll = time.Millisecond

// Synthetic is an offscreen RenderSurface for tests and headless tools.
//
// It owns a texture that frames render into and a staging buffer sized
// RowStride(width) × height that ReadPixels copies the texture into.
// Presenting a synthetic target is a no-op.
type Synthetic struct {
	device hal.Device
	format gputypes.TextureFormat

	texture     hal.Texture
	buffer      hal.Buffer
	bytesPerRow uint32
	width       uint32
	height      uint32

	// retire replaces the texture and buffer release on reconfiguration
	// while frames referencing them may still be in flight.
	retire func(release func())

	// readbacks holds readback submissions that timed out.
	readbacks inflight.Tracker
}

// NewSynthetic creates an unconfigured synthetic surface with the canonical
// RGBA8Unorm format.
func NewSynthetic() *Synthetic {
	return NewSyntheticWithFormat(gputypes.TextureFormatRGBA8Unorm)
}

// NewSyntheticWithFormat creates an unconfigured synthetic surface whose
// textures use format.
func NewSyntheticWithFormat(format gputypes.TextureFormat) *Synthetic {
	return &Synthetic{format: format}
}

func (*Synthetic) isRenderSurface() {}

// DefaultConfig always succeeds with a fixed configuration so that tests
// do not depend on platform capability queries.
func (s *Synthetic) DefaultConfig(_ gpucontext.Adapter, width, height uint32) (Config, bool) {
	return Config{
		SurfaceConfiguration: hal.SurfaceConfiguration{
			Width:       width,
			Height:      height,
			Format:      s.format,
			Usage:       gputypes.TextureUsageRenderAttachment,
			PresentMode: gputypes.PresentModeImmediate,
			AlphaMode:   gputypes.CompositeAlphaModeAuto,
		},
		MaxFrameLatency: DefaultMaxFrameLatency,
	}, true
}

// SetRetire installs the function Configure hands the previous texture and
// buffer release to. With none installed they are destroyed immediately.
func (s *Synthetic) SetRetire(retire func(release func())) {
	s.retire = retire
}

// Configure (re)allocates the offscreen texture and staging buffer for
// config and records config.Format as the active format. The previous
// texture and buffer are released only after the new ones exist, through
// the function installed with SetRetire.
func (s *Synthetic) Configure(device hal.Device, config *Config) error {
	if device == nil {
		return ErrNilDevice
	}
	if config.Width == 0 || config.Height == 0 {
		return fmt.Errorf("synthetic configure: %w", ErrZeroDimensions)
	}
	bpp, err := BytesPerPixel(config.Format)
	if err != nil {
		return fmt.Errorf("synthetic configure %v: %w", config.Format, err)
	}

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "synthetic_surface",
		Size:          hal.Extent3D{Width: config.Width, Height: config.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        config.Format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create synthetic texture: %w", err)
	}

	bytesPerRow := RowStride(config.Width, bpp)
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "synthetic_readback",
		Size:  uint64(bytesPerRow) * uint64(config.Height),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return fmt.Errorf("create synthetic readback buffer: %w", err)
	}

	if s.device != nil {
		oldDevice, oldTex, oldBuf := s.device, s.texture, s.buffer
		release := func() { destroyPair(oldDevice, oldTex, oldBuf) }
		if s.retire != nil {
			s.retire(release)
		} else {
			release()
		}
	}
	s.device = device
	s.texture = tex
	s.buffer = buf
	s.bytesPerRow = bytesPerRow
	s.width = config.Width
	s.height = config.Height
	s.format = config.Format

	logging.Logger().Debug("surface: synthetic configured",
		"width", s.width, "height", s.height, "bytes_per_row", s.bytesPerRow)
	return nil
}

// CurrentTarget returns a view into the offscreen texture, or nil if the
// surface has not been configured yet.
func (s *Synthetic) CurrentTarget() *Target {
	if s.texture == nil {
		return nil
	}
	view, err := s.device.CreateTextureView(s.texture, &hal.TextureViewDescriptor{
		Label:         "synthetic_surface_view",
		Format:        s.format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		logging.Logger().Warn("surface: synthetic view failed, skipping frame", "err", err)
		return nil
	}
	return &Target{
		texture:     s.texture,
		view:        view,
		width:       s.width,
		height:      s.height,
		format:      s.format,
		releaseView: s.device.DestroyTextureView,
	}
}

// Texture returns the offscreen texture, or nil before Configure.
func (s *Synthetic) Texture() hal.Texture { return s.texture }

// Buffer returns the staging buffer, or nil before Configure.
func (s *Synthetic) Buffer() hal.Buffer { return s.buffer }

// BytesPerRow returns the aligned row stride of the staging buffer.
func (s *Synthetic) BytesPerRow() uint32 { return s.bytesPerRow }

// BufferSize returns the size of the staging buffer in bytes.
func (s *Synthetic) BufferSize() uint64 {
	return uint64(s.bytesPerRow) * uint64(s.height)
}

// Size returns the last configured width and height.
func (s *Synthetic) Size() (uint32, uint32) { return s.width, s.height }

// Format returns the active pixel format.
func (s *Synthetic) Format() gputypes.TextureFormat { return s.format }

// ReadPixels copies the offscreen texture to the staging buffer, waits for
// the GPU and returns the pixels as RGBA. Only 8-bit formats can be read.
func (s *Synthetic) ReadPixels(queue hal.Queue) (*image.RGBA, error) {
	if s.texture == nil {
		return nil, ErrNotConfigured
	}
	if bpp, _ := BytesPerPixel(s.format); bpp != 4 {
		return nil, fmt.Errorf("read pixels %v: %w", s.format, ErrUnsupportedFormat)
	}

	encoder, err := s.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "synthetic_readback_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("synthetic_readback"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(s.texture, s.buffer, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: s.bytesPerRow, RowsPerImage: s.height},
		TextureBase:  hal.ImageCopyTexture{Texture: s.texture, MipLevel: 0},
		Size:         hal.Extent3D{Width: s.width, Height: s.height, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}

	s.readbacks.Reclaim(queue.PollCompleted(), s.device.FreeCommandBuffer)
	index, err := queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		s.device.FreeCommandBuffer(cmdBuf)
		return nil, fmt.Errorf("submit: %w", err)
	}
	if !waitCompleted(queue, index, readbackTimeout) {
		// The copy may still be running: keep the command buffer until the
		// queue reports it done.
		s.readbacks.Track(index, cmdBuf)
		return nil, fmt.Errorf("read pixels: GPU did not finish within %v: %w", readbackTimeout, ErrTimeout)
	}
	s.device.FreeCommandBuffer(cmdBuf)

	raw, err := s.mapStaging()
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, int(s.width), int(s.height)))
	unpackRows(img.Pix, raw, s.width, s.height, s.bytesPerRow, isBGRA(s.format))
	return img, nil
}

// mapStaging copies the staging buffer out through a mapping.
func (s *Synthetic) mapStaging() ([]byte, error) {
	size := s.BufferSize()
	mapping, err := s.device.MapBuffer(s.buffer, 0, size)
	if err != nil {
		return nil, fmt.Errorf("map readback buffer: %w", err)
	}
	raw := make([]byte, size)
	copy(raw, unsafe.Slice((*byte)(mapping.Ptr), size))
	if err := s.device.UnmapBuffer(s.buffer); err != nil {
		return nil, fmt.Errorf("unmap readback buffer: %w", err)
	}
	return raw, nil
}

// waitCompleted polls queue until index has completed or timeout expires.
func waitCompleted(queue hal.Queue, index uint64, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for queue.PollCompleted() < index {
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(readbackPoll)
	}
	return true
}

// Destroy releases the texture and staging buffer. The device must be idle.
func (s *Synthetic) Destroy() {
	if s.device != nil {
		s.readbacks.Drain(s.device.FreeCommandBuffer)
		destroyPair(s.device, s.texture, s.buffer)
	}
	s.texture, s.buffer = nil, nil
	s.width, s.height, s.bytesPerRow = 0, 0, 0
}

func destroyPair(device hal.Device, tex hal.Texture, buf hal.Buffer) {
	if buf != nil {
		device.DestroyBuffer(buf)
	}
	if tex != nil {
		device.DestroyTexture(tex)
	}
}

func isBGRA(f gputypes.TextureFormat) bool {
	return f == gputypes.TextureFormatBGRA8Unorm || f == gputypes.TextureFormatBGRA8UnormSrgb
}

// unpackRows strips the per-row copy padding from src into the tightly
// packed dst, swapping R and B when the source is BGRA.
func unpackRows(dst, src []byte, width, height, srcStride uint32, bgra bool) {
	rowBytes := int(width) * 4
	for y := 0; y < int(height); y++ {
		s := src[y*int(srcStride) : y*int(srcStride)+rowBytes]
		d := dst[y*rowBytes : (y+1)*rowBytes]
		copy(d, s)
		if !bgra {
			continue
		}
		for i := 0; i < rowBytes; i += 4 {
			d[i], d[i+2] = d[i+2], d[i]
		}
	}
}
