// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides the presentation surfaces textcomp renders into.
//
// A RenderSurface decides where the final pixels of a frame land. Two
// implementations exist:
//
//   - Live: bound to a window through a host-provided Presenter (swapchain).
//     NewHALLive wraps a hal.Surface directly.
//   - Synthetic: an offscreen texture plus a CPU-readable staging buffer,
//     used by tests and headless tooling.
//
// Both share the same contract so that everything above this package runs
// the same code path in production and in tests.
//
// # Frame lifecycle
//
//	rs.Configure(device, &cfg)      // on startup and on every size change
//	t := rs.CurrentTarget()         // once per frame
//	if t == nil {
//	    return                      // transient failure: skip this frame
//	}
//	draw(t.View())                  // the view is valid only for this frame
//	t.Present()                     // terminal: t must not be used again
//
// CurrentTarget never fails hard. Lost, outdated or timed-out surfaces are
// logged and reported as a nil target; the caller tries again next tick.
// The acquisition errors are the hal.Err* sentinels, so HAL errors match
// with errors.Is unchanged. ErrNotReady is not a failure at all.
//
// A caller that submits GPU work asynchronously calls Retain before
// Present and Release once the queue has completed that work, so the view
// outlives the frame on the CPU side.
//
// # Thread Safety
//
// Surfaces are NOT thread-safe. They are owned by the frame driver and
// mutated only between frames.
package surface
