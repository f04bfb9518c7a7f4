// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package postprocess

import "github.com/gogpu/gputypes"

// Options configures the shared compositing pass of the built-in effects.
type Options struct {
	// ClearColor fills the surface before the text layer is drawn,
	// including the part outside the drawing area. The zero value is
	// transparent black.
	ClearColor gputypes.Color

	// SPIRV compiles the shader to SPIR-V with naga instead of handing
	// WGSL to the backend.
	SPIRV bool

	// Label prefixes GPU debug labels. Defaults to the effect name.
	Label string
}

func (o Options) label(def string) string {
	if o.Label != "" {
		return o.Label
	}
	return def
}
