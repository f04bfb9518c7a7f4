// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DefaultMaxFrameLatency is the frame latency reported by synthetic configs.
const DefaultMaxFrameLatency = 2

// Config describes how a surface is configured.
//
// The embedded hal.SurfaceConfiguration is passed to hal.Surface.Configure
// as is. Present and alpha modes use the gputypes enums.
type Config struct {
	hal.SurfaceConfiguration

	// MaxFrameLatency is the number of frames the presentation engine may queue.
	MaxFrameLatency uint32

	// ViewFormats lists additional formats views may be created with.
	ViewFormats []gputypes.TextureFormat
}

// Dimensions returns the configured size.
func (c *Config) Dimensions() Dimensions {
	return Dimensions{Width: c.Width, Height: c.Height}
}

// IsSRGB reports whether the configured format encodes sRGB on write.
func (c *Config) IsSRGB() bool {
	return IsSRGBFormat(c.Format)
}

// IsSRGBFormat reports whether writes to f are sRGB-encoded by the GPU.
func IsSRGBFormat(f gputypes.TextureFormat) bool {
	switch f {
	case gputypes.TextureFormatRGBA8UnormSrgb, gputypes.TextureFormatBGRA8UnormSrgb:
		return true
	default:
		return false
	}
}

// BytesPerPixel returns the texel size of the color formats synthetic
// surfaces can be created with.
func BytesPerPixel(f gputypes.TextureFormat) (uint32, error) {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb,
		gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb:
		return 4, nil
	case gputypes.TextureFormatRGBA32Float:
		return 16, nil
	default:
		return 0, ErrUnsupportedFormat
	}
}

// CopyRowAlignment is the alignment WebGPU requires for BytesPerRow in
// texture-to-buffer copies.
const CopyRowAlignment = 256

// RowStride returns the aligned number of bytes one row of a width-texel
// wide image occupies in a copy buffer.
func RowStride(width, bytesPerPixel uint32) uint32 {
	return (width*bytesPerPixel + CopyRowAlignment - 1) &^ (CopyRowAlignment - 1)
}
