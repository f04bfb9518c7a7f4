// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package postprocess defines how composited text becomes the final pixels
// of a frame.
//
// A Builder compiles a Processor for a surface format. Each frame the
// backend renders text into an intermediate RGBA8 texture and then calls
// Processor.Process with a view of the surface texture, which is the only
// place where final compositing happens.
//
// Three effects are provided, all built on the same fullscreen pass:
//
//   - NewBlit draws the text layer unchanged over a clear color.
//   - NewTint applies a 4x4 color matrix and offset.
//   - NewFade animates the layer opacity with a tween and keeps requesting
//     frames until the animation settles.
//
// Custom processors implement Processor directly and may embed Static when
// they never need frames on their own.
package postprocess
