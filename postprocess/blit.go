// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package postprocess

import (
	"github.com/gogpu/wgpu/hal"
)

// NewBlit returns a Builder for the plain compositor: the text layer is
// drawn unchanged into the drawing area over opts.ClearColor.
func NewBlit(opts Options) Builder {
	return BuilderFunc(func(device hal.Device, in *Inputs) (Processor, error) {
		return NewTint(IdentityMatrix(), Options{
			ClearColor: opts.ClearColor,
			SPIRV:      opts.SPIRV,
			Label:      opts.label("blit"),
		}).Compile(device, in)
	})
}
