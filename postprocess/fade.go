// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package postprocess

import (
	"time"

	"github.com/gogpu/wgpu/hal"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// FadeConfig describes a Fade animation.
type FadeConfig struct {
	// From and To are the start and end opacity in [0, 1].
	From, To float32

	// Duration of the animation. Zero jumps straight to To.
	Duration time.Duration

	// Easing shapes the animation. Defaults to ease.Linear.
	Easing ease.TweenFunc

	// Matrix is applied before the opacity. The zero value means identity.
	Matrix *ColorMatrix

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// Fade composites the text layer with an animated opacity. It requests
// frames through NeedsUpdate until the animation has finished.
type Fade struct {
	pass    *pass
	cfg     FadeConfig
	matrix  ColorMatrix
	tween   *gween.Tween
	last    time.Time
	opacity float32
	done    bool
}

// NewFade returns a Builder for a Fade processor.
func NewFade(cfg FadeConfig, opts Options) Builder {
	if cfg.Easing == nil {
		cfg.Easing = ease.Linear
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return BuilderFunc(func(device hal.Device, in *Inputs) (Processor, error) {
		p, err := newPass(device, in, opts, opts.label("fade"))
		if err != nil {
			return nil, err
		}
		f := &Fade{pass: p, cfg: cfg, matrix: IdentityMatrix()}
		if cfg.Matrix != nil {
			f.matrix = *cfg.Matrix
		}
		f.Restart()
		return f, nil
	})
}

// Restart rewinds the animation to From. The first frame after Restart
// shows From; time starts counting from that frame.
func (f *Fade) Restart() {
	f.tween = gween.New(f.cfg.From, f.cfg.To, float32(f.cfg.Duration.Seconds()), f.cfg.Easing)
	f.last = time.Time{}
	f.opacity = f.cfg.From
	f.done = false
}

// Opacity returns the opacity used for the last processed frame.
func (f *Fade) Opacity() float32 { return f.opacity }

// Done reports whether the animation has reached To.
func (f *Fade) Done() bool { return f.done }

// NeedsUpdate reports true while the animation is running.
func (f *Fade) NeedsUpdate() bool { return !f.done }

// Resize rebinds the text layer. The animation continues unaffected.
func (f *Fade) Resize(_ hal.Device, in *Inputs) error {
	return f.pass.bind(in)
}

// Process advances the animation to the current time and draws the text
// layer at the resulting opacity.
func (f *Fade) Process(encoder hal.CommandEncoder, queue hal.Queue, in *Inputs, view hal.TextureView) error {
	f.advance()
	return f.pass.encode(encoder, queue, in, view, colorParams{matrix: f.matrix, opacity: f.opacity})
}

func (f *Fade) advance() {
	if f.done {
		return
	}
	if f.cfg.Duration <= 0 {
		f.opacity, f.done = clamp01(f.cfg.To), true
		return
	}
	now := f.cfg.Clock()
	var dt float32
	if !f.last.IsZero() {
		dt = float32(now.Sub(f.last).Seconds())
	}
	f.last = now

	value, finished := f.tween.Update(dt)
	f.opacity = clamp01(value)
	f.done = finished
}

// Destroy releases the pipeline and bind group.
func (f *Fade) Destroy() {
	f.pass.destroy()
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}
