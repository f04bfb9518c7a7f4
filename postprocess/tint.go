// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package postprocess

import (
	"github.com/gogpu/wgpu/hal"
)

// Tint composites the text layer through a fixed color matrix.
type Tint struct {
	Static

	pass   *pass
	matrix ColorMatrix
}

// NewTint returns a Builder for a Tint processor applying m.
func NewTint(m ColorMatrix, opts Options) Builder {
	return BuilderFunc(func(device hal.Device, in *Inputs) (Processor, error) {
		p, err := newPass(device, in, opts, opts.label("tint"))
		if err != nil {
			return nil, err
		}
		return &Tint{pass: p, matrix: m}, nil
	})
}

// Matrix returns the color matrix.
func (t *Tint) Matrix() ColorMatrix { return t.matrix }

// SetMatrix replaces the color matrix. It takes effect on the next frame;
// the caller must invalidate the backend for that frame to be drawn.
func (t *Tint) SetMatrix(m ColorMatrix) { t.matrix = m }

// Resize rebinds the text layer.
func (t *Tint) Resize(_ hal.Device, in *Inputs) error {
	return t.pass.bind(in)
}

// Process draws the text layer into view.
func (t *Tint) Process(encoder hal.CommandEncoder, queue hal.Queue, in *Inputs, view hal.TextureView) error {
	return t.pass.encode(encoder, queue, in, view, colorParams{matrix: t.matrix, opacity: 1})
}

// Destroy releases the pipeline and bind group.
func (t *Tint) Destroy() {
	t.pass.destroy()
}
